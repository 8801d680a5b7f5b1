package controllers

import (
	"context"
	"sort"
	"sync"
	"time"

	"community_exchange/apperr"
	"community_exchange/guard"
	"community_exchange/models"

	"github.com/google/uuid"
)

// fakeStore is an in-memory Store for handler tests. It applies the same
// guard rules as the gorm repo; only the persistence mechanics differ.
type fakeStore struct {
	mu       sync.Mutex
	users    map[string]*models.User
	items    map[string]*models.Item
	borrows  map[string]*models.BorrowRequest
	points   []models.PointsTransaction
	awarded  map[string]bool
	messages map[string]*models.Message
	ratings  map[string]*models.Rating
	reports  []models.InspectionReport
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    map[string]*models.User{},
		items:    map[string]*models.Item{},
		borrows:  map[string]*models.BorrowRequest{},
		awarded:  map[string]bool{},
		messages: map[string]*models.Message{},
		ratings:  map[string]*models.Rating{},
	}
}

func (f *fakeStore) award(userID, action string, points int, description, sourceID string) error {
	key := userID + "|" + action + "|" + sourceID
	if f.awarded[key] {
		return apperr.Conflict("points event already recorded")
	}
	f.awarded[key] = true
	f.points = append(f.points, models.PointsTransaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Action:      action,
		Points:      points,
		Description: description,
		SourceID:    sourceID,
		CreatedAt:   time.Now().UTC(),
	})
	return nil
}

// users

func (f *fakeStore) CreateUser(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Username == u.Username {
			return apperr.Conflict("username %q is already taken", u.Username)
		}
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeStore) FindUserByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (f *fakeStore) TouchUserLogin(_ context.Context, userID string) error { return nil }

// items

func (f *fakeStore) CreateItem(_ context.Context, p models.Principal, in guard.NewItemInput) (*models.Item, error) {
	if err := guard.CreateItem(p, in); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	it := &models.Item{
		ID:            uuid.NewString(),
		OwnerID:       p.ID,
		Name:          in.Name,
		Category:      in.Category,
		Description:   in.Description,
		OwnershipType: in.OwnershipType,
		Status:        models.ItemPending,
		CreatedAt:     time.Now().UTC(),
	}
	f.items[it.ID] = it
	cp := *it
	return &cp, nil
}

func (f *fakeStore) FindItemByID(_ context.Context, id string) (*models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok {
		return nil, apperr.NotFound("item not found")
	}
	cp := *it
	return &cp, nil
}

func (f *fakeStore) listItems(filter func(*models.Item) bool) []models.Item {
	var out []models.Item
	for _, it := range f.items {
		if filter(it) {
			out = append(out, *it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeStore) ListApprovedItems(_ context.Context) ([]models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listItems(func(it *models.Item) bool { return it.Status == models.ItemApproved }), nil
}

func (f *fakeStore) ListPendingItems(_ context.Context) ([]models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listItems(func(it *models.Item) bool { return it.Status == models.ItemPending }), nil
}

func (f *fakeStore) ListItemsByOwner(_ context.Context, ownerID string) ([]models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listItems(func(it *models.Item) bool { return it.OwnerID == ownerID }), nil
}

func (f *fakeStore) UpdateItem(_ context.Context, p models.Principal, itemID string, patch models.ItemPatch) (*models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[itemID]
	if !ok {
		return nil, apperr.NotFound("item not found")
	}
	if err := guard.UpdateItem(p, it, patch); err != nil {
		return nil, err
	}
	if patch.Name != nil {
		it.Name = *patch.Name
	}
	if patch.Category != nil {
		it.Category = *patch.Category
	}
	if patch.Description != nil {
		it.Description = *patch.Description
	}
	if patch.OwnershipType != nil {
		it.OwnershipType = *patch.OwnershipType
	}
	cp := *it
	return &cp, nil
}

func (f *fakeStore) DeleteItem(_ context.Context, p models.Principal, itemID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[itemID]
	if !ok {
		return apperr.NotFound("item not found")
	}
	if err := guard.DeleteItem(p, it); err != nil {
		return err
	}
	reason := "item was deleted by its owner"
	for _, b := range f.borrows {
		if b.ItemID == it.ID && b.Open() {
			b.Status = models.BorrowDenied
			b.DenialReason = &reason
		}
	}
	delete(f.items, it.ID)
	return nil
}

func (f *fakeStore) ApproveItem(_ context.Context, p models.Principal, itemID string, stars int, comment string) (*models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[itemID]
	if !ok {
		return nil, apperr.NotFound("item not found")
	}
	if err := guard.ApproveItem(p, it, stars); err != nil {
		return nil, err
	}
	it.Status = models.ItemApproved
	it.ConditionScore = &stars
	f.reports = append(f.reports, models.InspectionReport{
		ID: uuid.NewString(), ItemID: it.ID, StaffID: p.ID,
		Decision: models.DecisionApproved, ConditionRating: &stars, Notes: comment,
		InspectedAt: time.Now().UTC(),
	})
	if err := f.award(it.OwnerID, models.ActionItemApproved, models.PointsItemApproved,
		"Item approved: "+it.Name, it.ID); err != nil {
		return nil, err
	}
	cp := *it
	return &cp, nil
}

func (f *fakeStore) RejectItem(_ context.Context, p models.Principal, itemID string, comment string) (*models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[itemID]
	if !ok {
		return nil, apperr.NotFound("item not found")
	}
	if err := guard.RejectItem(p, it, comment); err != nil {
		return nil, err
	}
	it.Status = models.ItemRejected
	f.reports = append(f.reports, models.InspectionReport{
		ID: uuid.NewString(), ItemID: it.ID, StaffID: p.ID,
		Decision: models.DecisionRejected, Notes: comment,
		InspectedAt: time.Now().UTC(),
	})
	cp := *it
	return &cp, nil
}

func (f *fakeStore) CompleteTransfer(_ context.Context, p models.Principal, itemID string) (*models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[itemID]
	if !ok {
		return nil, apperr.NotFound("item not found")
	}
	if err := guard.CompleteTransfer(p, it); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	it.TransferCompletedAt = &now
	action, points := models.CompletionAward(it.OwnershipType)
	if err := f.award(it.OwnerID, action, points, "Transfer completed: "+it.Name, it.ID); err != nil {
		return nil, err
	}
	cp := *it
	return &cp, nil
}

// borrow requests

func (f *fakeStore) CreateBorrowRequest(_ context.Context, p models.Principal, itemID string) (*models.BorrowRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[itemID]
	if !ok {
		return nil, apperr.NotFound("item not found")
	}
	if err := guard.CreateBorrowRequest(p, it); err != nil {
		return nil, err
	}
	for _, b := range f.borrows {
		if b.ItemID == itemID && b.BorrowerID == p.ID && b.Open() {
			return nil, apperr.Conflict("you already have an open request for this item")
		}
	}
	b := &models.BorrowRequest{
		ID:          uuid.NewString(),
		ItemID:      it.ID,
		BorrowerID:  p.ID,
		ItemOwnerID: it.OwnerID,
		Status:      models.BorrowPending,
		RequestDate: time.Now().UTC(),
	}
	f.borrows[b.ID] = b
	cp := *b
	return &cp, nil
}

func (f *fakeStore) FindBorrowRequestByID(_ context.Context, id string) (*models.BorrowRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.borrows[id]
	if !ok {
		return nil, apperr.NotFound("borrow request not found")
	}
	cp := *b
	return &cp, nil
}

func (f *fakeStore) ListBorrowRequests(_ context.Context, p models.Principal) ([]models.BorrowRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.BorrowRequest
	for _, b := range f.borrows {
		if p.IsStaff() || b.BorrowerID == p.ID || b.ItemOwnerID == p.ID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequestDate.After(out[j].RequestDate) })
	return out, nil
}

func (f *fakeStore) ApproveBorrowRequest(_ context.Context, p models.Principal, requestID string) (*models.BorrowRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.borrows[requestID]
	if !ok {
		return nil, apperr.NotFound("borrow request not found")
	}
	if err := guard.ApproveBorrowRequest(p, b); err != nil {
		return nil, err
	}
	due := time.Now().UTC().Add(models.BorrowWindow)
	b.Status = models.BorrowApproved
	b.DueDate = &due
	if err := f.award(b.ItemOwnerID, models.ActionBorrowFulfilled, models.PointsBorrowFulfilled,
		"Borrow request fulfilled", b.ID); err != nil {
		return nil, err
	}
	cp := *b
	return &cp, nil
}

func (f *fakeStore) DenyBorrowRequest(_ context.Context, p models.Principal, requestID string) (*models.BorrowRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.borrows[requestID]
	if !ok {
		return nil, apperr.NotFound("borrow request not found")
	}
	if err := guard.DenyBorrowRequest(p, b); err != nil {
		return nil, err
	}
	b.Status = models.BorrowDenied
	cp := *b
	return &cp, nil
}

func (f *fakeStore) ReturnBorrowedItem(_ context.Context, p models.Principal, requestID string) (*models.BorrowRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.borrows[requestID]
	if !ok {
		return nil, apperr.NotFound("borrow request not found")
	}
	if err := guard.ReturnBorrowedItem(p, b); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	b.Status = models.BorrowReturned
	b.ReturnDate = &now
	cp := *b
	return &cp, nil
}

// points

func (f *fakeStore) PointsBalance(_ context.Context, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, t := range f.points {
		if t.UserID == userID {
			total += t.Points
		}
	}
	return total, nil
}

func (f *fakeStore) PointsTransactionsFor(_ context.Context, userID string) ([]models.PointsTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.PointsTransaction
	for _, t := range f.points {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// messages

func (f *fakeStore) CreateMessage(_ context.Context, p models.Principal, recipientID string, itemID *string, subject, body string) (*models.Message, error) {
	if err := guard.SendMessage(p, recipientID, subject, body); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[recipientID]; !ok {
		return nil, apperr.NotFound("recipient not found")
	}
	m := &models.Message{
		ID:          uuid.NewString(),
		SenderID:    p.ID,
		RecipientID: recipientID,
		ItemID:      itemID,
		Subject:     subject,
		Body:        body,
		CreatedAt:   time.Now().UTC(),
	}
	f.messages[m.ID] = m
	cp := *m
	return &cp, nil
}

func (f *fakeStore) listMessages(filter func(*models.Message) bool) []models.Message {
	var out []models.Message
	for _, m := range f.messages {
		if filter(m) {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeStore) ListInbox(_ context.Context, userID string) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listMessages(func(m *models.Message) bool { return m.RecipientID == userID }), nil
}

func (f *fakeStore) ListSent(_ context.Context, userID string) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listMessages(func(m *models.Message) bool { return m.SenderID == userID }), nil
}

func (f *fakeStore) MarkMessageRead(_ context.Context, p models.Principal, id string) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.messages[id]
	if !ok {
		return nil, apperr.NotFound("message not found")
	}
	if err := guard.MarkMessageRead(p, m); err != nil {
		return nil, err
	}
	m.IsRead = true
	cp := *m
	return &cp, nil
}

// ratings

func (f *fakeStore) CreateRating(_ context.Context, p models.Principal, itemID string, stars int, comment string) (*models.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[itemID]
	if !ok {
		return nil, apperr.NotFound("item not found")
	}
	if err := guard.CreateRating(p, it, stars); err != nil {
		return nil, err
	}
	for _, r := range f.ratings {
		if r.ItemID == itemID && r.RaterID == p.ID {
			return nil, apperr.Conflict("you already rated this item")
		}
	}
	r := &models.Rating{
		ID:      uuid.NewString(),
		ItemID:  itemID,
		RaterID: p.ID,
		Stars:   stars,
		Comment: comment,
	}
	f.ratings[r.ID] = r
	cp := *r
	return &cp, nil
}

func (f *fakeStore) ListRatings(_ context.Context, itemID string) ([]models.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Rating
	for _, r := range f.ratings {
		if itemID == "" || r.ItemID == itemID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateRating(_ context.Context, p models.Principal, id string, stars int, comment string) (*models.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.ratings[id]
	if !ok {
		return nil, apperr.NotFound("rating not found")
	}
	if err := guard.MutateRating(p, r); err != nil {
		return nil, err
	}
	if stars < 1 || stars > 5 {
		return nil, apperr.Validation("stars must be between 1 and 5")
	}
	r.Stars = stars
	r.Comment = comment
	cp := *r
	return &cp, nil
}

func (f *fakeStore) DeleteRating(_ context.Context, p models.Principal, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.ratings[id]
	if !ok {
		return apperr.NotFound("rating not found")
	}
	if err := guard.MutateRating(p, r); err != nil {
		return err
	}
	delete(f.ratings, id)
	return nil
}

// inspections

func (f *fakeStore) ListInspectionReports(_ context.Context) ([]models.InspectionReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.InspectionReport, len(f.reports))
	copy(out, f.reports)
	return out, nil
}

var _ Store = (*fakeStore)(nil)
