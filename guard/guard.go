// Package guard centralizes the authorization and state-transition rules for
// items, borrow requests and messages. Every mutating store path calls one
// guard function with the acting principal and the current entity state; the
// rules live here and nowhere else.
package guard

import (
	"strings"

	"community_exchange/apperr"
	"community_exchange/models"
)

// NewItemInput is the validated shape of a listing submission.
type NewItemInput struct {
	Name          string
	Category      string
	Description   string
	OwnershipType string
}

// CreateItem checks that p may list an item and that the submission is
// complete.
func CreateItem(p models.Principal, in NewItemInput) error {
	if !p.IsCustomer() {
		return apperr.Authorization("only customers can list items")
	}
	if strings.TrimSpace(in.Name) == "" {
		return apperr.Validation("item name is required")
	}
	if strings.TrimSpace(in.Category) == "" {
		return apperr.Validation("item category is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return apperr.Validation("item description is required")
	}
	if !models.ValidOwnershipType(in.OwnershipType) {
		return apperr.Validation("ownership_type must be SELL, EXCHANGE or SHARE")
	}
	return nil
}

// ApproveItem checks a staff approval with the given star rating.
func ApproveItem(p models.Principal, item *models.Item, stars int) error {
	if !p.IsStaff() {
		return apperr.Authorization("only staff can approve items")
	}
	if stars < 1 || stars > 5 {
		return apperr.Validation("stars must be between 1 and 5")
	}
	if item.Status != models.ItemPending {
		return apperr.InvalidState("item is %s, only pending items can be approved", item.Status)
	}
	return nil
}

// RejectItem checks a staff rejection. The comment is a recorded business
// decision and must not be empty.
func RejectItem(p models.Principal, item *models.Item, comment string) error {
	if !p.IsStaff() {
		return apperr.Authorization("only staff can reject items")
	}
	if strings.TrimSpace(comment) == "" {
		return apperr.Validation("a rejection comment is required")
	}
	if item.Status != models.ItemPending {
		return apperr.InvalidState("item is %s, only pending items can be rejected", item.Status)
	}
	return nil
}

// UpdateItem checks an owner edit. Edits never change status; an approved
// item stays approved.
func UpdateItem(p models.Principal, item *models.Item, patch models.ItemPatch) error {
	if item.OwnerID != p.ID {
		return apperr.Authorization("only the owner can edit this item")
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return apperr.Validation("item name cannot be blank")
	}
	if patch.Category != nil && strings.TrimSpace(*patch.Category) == "" {
		return apperr.Validation("item category cannot be blank")
	}
	if patch.Description != nil && strings.TrimSpace(*patch.Description) == "" {
		return apperr.Validation("item description cannot be blank")
	}
	if patch.OwnershipType != nil && !models.ValidOwnershipType(*patch.OwnershipType) {
		return apperr.Validation("ownership_type must be SELL, EXCHANGE or SHARE")
	}
	return nil
}

// DeleteItem checks an owner deletion. Allowed from any status; open borrow
// requests are force-denied by the store in the same transaction.
func DeleteItem(p models.Principal, item *models.Item) error {
	if item.OwnerID != p.ID {
		return apperr.Authorization("only the owner can delete this item")
	}
	return nil
}

// CompleteTransfer checks the owner marking a SELL/EXCHANGE/SHARE hand-over
// as done. Fires at most once per item.
func CompleteTransfer(p models.Principal, item *models.Item) error {
	if item.OwnerID != p.ID {
		return apperr.Authorization("only the owner can complete a transfer")
	}
	if item.Status != models.ItemApproved {
		return apperr.InvalidState("item is %s, only approved items can complete a transfer", item.Status)
	}
	if item.TransferCompletedAt != nil {
		return apperr.InvalidState("transfer already completed for this item")
	}
	return nil
}

// CreateBorrowRequest checks a borrower's claim against an item. Duplicate
// open requests are refused by the store with a conflict.
func CreateBorrowRequest(p models.Principal, item *models.Item) error {
	if !p.IsCustomer() {
		return apperr.Authorization("only customers can request to borrow")
	}
	if item.OwnerID == p.ID {
		return apperr.Authorization("cannot borrow your own item")
	}
	if item.Status != models.ItemApproved {
		return apperr.InvalidState("item is %s, only approved items can be borrowed", item.Status)
	}
	return nil
}

// ApproveBorrowRequest checks the item owner approving a pending request.
func ApproveBorrowRequest(p models.Principal, req *models.BorrowRequest) error {
	if req.ItemOwnerID != p.ID {
		return apperr.Authorization("only the item owner can approve this request")
	}
	if req.Status != models.BorrowPending {
		return apperr.InvalidState("request is %s, only pending requests can be approved", req.Status)
	}
	return nil
}

// DenyBorrowRequest checks the item owner denying a pending request.
func DenyBorrowRequest(p models.Principal, req *models.BorrowRequest) error {
	if req.ItemOwnerID != p.ID {
		return apperr.Authorization("only the item owner can deny this request")
	}
	if req.Status != models.BorrowPending {
		return apperr.InvalidState("request is %s, only pending requests can be denied", req.Status)
	}
	return nil
}

// ReturnBorrowedItem checks the borrower handing an approved loan back.
func ReturnBorrowedItem(p models.Principal, req *models.BorrowRequest) error {
	if req.BorrowerID != p.ID {
		return apperr.Authorization("only the borrower can return this item")
	}
	if req.Status != models.BorrowApproved || req.ReturnDate != nil {
		return apperr.InvalidState("request is not an open approved loan")
	}
	return nil
}

// SendMessage checks a member writing to another member.
func SendMessage(p models.Principal, recipientID, subject, body string) error {
	if recipientID == "" {
		return apperr.Validation("recipient is required")
	}
	if recipientID == p.ID {
		return apperr.Validation("cannot message yourself")
	}
	if strings.TrimSpace(subject) == "" {
		return apperr.Validation("subject is required")
	}
	if strings.TrimSpace(body) == "" {
		return apperr.Validation("body is required")
	}
	return nil
}

// MarkMessageRead checks that only the recipient flips the read flag.
func MarkMessageRead(p models.Principal, msg *models.Message) error {
	if msg.RecipientID != p.ID {
		return apperr.Authorization("only the recipient can mark a message as read")
	}
	return nil
}

// CreateRating checks a member rating an approved listing.
func CreateRating(p models.Principal, item *models.Item, stars int) error {
	if stars < 1 || stars > 5 {
		return apperr.Validation("stars must be between 1 and 5")
	}
	if item.Status != models.ItemApproved {
		return apperr.InvalidState("only approved items can be rated")
	}
	return nil
}

// MutateRating checks edits and deletes of an existing rating.
func MutateRating(p models.Principal, rating *models.Rating) error {
	if rating.RaterID != p.ID {
		return apperr.Authorization("only the author can change this rating")
	}
	return nil
}
