package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("events")

		collection.Fields.Add(
			&core.NumberField{Name: "event_id", Required: true, OnlyInt: true},
			&core.TextField{Name: "name", Required: true},
			&core.TextField{Name: "description"},
			&core.TextField{Name: "venue"},
			&core.DateField{Name: "date"},
			&core.NumberField{Name: "total_tickets", OnlyInt: true},
			&core.NumberField{Name: "available_tickets", OnlyInt: true},
			&core.NumberField{Name: "price", OnlyInt: true},
			&core.TextField{Name: "organizer", Required: true},
			&core.NumberField{Name: "max_tickets_per_user", OnlyInt: true},
			&core.DateField{Name: "sale_start_time"},
			&core.DateField{Name: "sale_end_time"},
			&core.BoolField{Name: "is_active"},
		)

		collection.AddIndex("idx_events_event_id", true, "event_id", "")
		collection.AddIndex("idx_events_organizer", false, "organizer", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("events")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
