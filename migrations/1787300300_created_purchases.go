package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("purchases")

		collection.Fields.Add(
			&core.NumberField{Name: "purchase_id", Required: true, OnlyInt: true},
			&core.NumberField{Name: "event_id", Required: true, OnlyInt: true},
			&core.TextField{Name: "buyer", Required: true},
			&core.NumberField{Name: "quantity", OnlyInt: true},
			&core.NumberField{Name: "total_amount", OnlyInt: true},
			&core.DateField{Name: "purchase_time"},
			&core.JSONField{Name: "ticket_ids", MaxSize: 102400},
		)

		collection.AddIndex("idx_purchases_purchase_id", true, "purchase_id", "")
		collection.AddIndex("idx_purchases_buyer", false, "buyer", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("purchases")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
