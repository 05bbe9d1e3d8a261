package translator

import (
	"time"

	"github.com/telhawk-systems/ldadapter/internal/models/ld"
	v2 "github.com/telhawk-systems/ldadapter/internal/models/v2"
)

// Notification translates a v2 notification. Entities in data never carry
// their own @context.
func (t *Translator) Notification(n v2.Notification, notifiedAt time.Time, linkedData bool) *ld.Notification {
	return &ld.Notification{
		Context:        t.context(linkedData),
		ID:             t.urn("Notification"),
		Type:           "Notification",
		SubscriptionID: SubscriptionURN(n.SubscriptionID),
		NotifiedAt:     ld.ISOTime(notifiedAt),
		Data:           t.Entities(n.Data, false, Flags{}),
	}
}
