package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dealshare/dealshare/internal/model"
	"github.com/dealshare/dealshare/internal/sqs"
)

// newDealEvent builds an outbox event describing a deal lifecycle change.
// The event row is written in the same transaction as the product
// mutation; the outbox worker publishes it later.
func newDealEvent(eventType string, product *model.Product) (*model.Event, error) {
	msg := sqs.DealMessage{
		Action:    strings.TrimPrefix(eventType, "deal."),
		ProductID: product.ID.String(),
		Title:     product.Title,
		Store:     product.Store,
		SalePrice: product.SalePrice,
		CreatedBy: product.CreatedBy.String(),
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal deal event: %w", err)
	}

	return &model.Event{
		EventType: eventType,
		EventData: data,
	}, nil
}
