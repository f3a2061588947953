package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("tickets")

		collection.Fields.Add(
			&core.NumberField{Name: "ticket_id", Required: true, OnlyInt: true},
			&core.NumberField{Name: "event_id", Required: true, OnlyInt: true},
			&core.TextField{Name: "owner", Required: true},
			&core.TextField{Name: "seat_number"},
			&core.DateField{Name: "purchase_time"},
			&core.BoolField{Name: "is_used"},
			&core.TextField{Name: "verification_code", Required: true},
		)

		collection.AddIndex("idx_tickets_ticket_id", true, "ticket_id", "")
		collection.AddIndex("idx_tickets_owner", false, "owner", "")
		collection.AddIndex("idx_tickets_event_id", false, "event_id", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("tickets")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
