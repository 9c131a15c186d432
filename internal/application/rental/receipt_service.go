package rental

import (
	"context"

	"github.com/boothledger/backend/internal/domain/rental"
	"github.com/boothledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ReceiptService handles receipt read operations. Issuance lives in
// PaymentService because it shares the payment transaction protocol.
type ReceiptService struct {
	receipts rental.ReceiptRepository
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(receipts rental.ReceiptRepository) *ReceiptService {
	return &ReceiptService{receipts: receipts}
}

// GetReceipt returns one receipt by ID
func (s *ReceiptService) GetReceipt(ctx context.Context, tenantID, receiptID uuid.UUID) (*ReceiptResponse, error) {
	receipt, err := s.receipts.FindByIDForTenant(ctx, tenantID, receiptID)
	if err != nil {
		return nil, err
	}
	resp := ToReceiptResponse(receipt)
	return &resp, nil
}

// ListReceipts returns a renter's receipts, newest first
func (s *ReceiptService) ListReceipts(ctx context.Context, tenantID, renterID uuid.UUID, filter shared.Filter) ([]ReceiptResponse, int64, error) {
	receipts, total, err := s.receipts.FindByRenter(ctx, tenantID, renterID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ReceiptResponse, len(receipts))
	for i, r := range receipts {
		out[i] = ToReceiptResponse(r)
	}
	return out, total, nil
}
