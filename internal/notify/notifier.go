package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/models"
)

// Notifier fans a booking confirmation out to whatever channels the
// customer left contact details for. Failures are logged and dropped.
type Notifier struct {
	email *EmailSender
	sms   *SMSSender
}

func New(email *EmailSender, sms *SMSSender) *Notifier {
	return &Notifier{email: email, sms: sms}
}

// BookingConfirmed notifies the customer in the background. The caller
// never waits and never sees a delivery error.
func (n *Notifier) BookingConfirmed(tenant *models.Tenant, customer *models.Customer, ap *models.Appointment) {
	body := fmt.Sprintf(
		"Your appointment with %s is booked for %s.",
		tenant.Name,
		ap.StartTime.Format("Mon, 02 Jan 2006 15:04"),
	)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if n.email != nil && customer.Email != "" {
			if err := n.email.Send(customer.Email, "Appointment confirmed", body); err != nil {
				log.Println("notify email error:", err)
			}
		}

		if n.sms != nil && customer.Phone != "" {
			if err := n.sms.Send(ctx, customer.Phone, body); err != nil {
				log.Println("notify sms error:", err)
			}
		}
	}()
}
