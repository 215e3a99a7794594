package payments

import (
	"context"
	"fmt"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"

	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/models"
)

// DepositClient creates a payment preference for the anchor of a
// booking. Only the series anchor ever carries payment state; later
// instances of a recurring series never do.
type DepositClient struct {
	prefs preference.Client
}

// NewDepositClient returns nil when no access token is configured;
// callers treat a nil client as payments disabled.
func NewDepositClient(accessToken string) (*DepositClient, error) {
	if accessToken == "" {
		return nil, nil
	}

	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, err
	}

	return &DepositClient{prefs: preference.NewClient(cfg)}, nil
}

// CreateDepositPreference registers a checkout preference for the
// service price and returns the payment URL.
func (d *DepositClient) CreateDepositPreference(
	ctx context.Context,
	ap *models.Appointment,
	service *models.Service,
) (string, error) {

	req := preference.Request{
		Items: []preference.ItemRequest{
			{
				Title:     service.Name,
				Quantity:  1,
				UnitPrice: service.Price,
			},
		},
		ExternalReference: fmt.Sprintf("appointment:%s", ap.PublicRef),
	}

	resource, err := d.prefs.Create(ctx, req)
	if err != nil {
		return "", err
	}

	return resource.InitPoint, nil
}
