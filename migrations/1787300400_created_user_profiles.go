package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("user_profiles")

		collection.Fields.Add(
			&core.TextField{Name: "user_id", Required: true},
			&core.JSONField{Name: "purchases", MaxSize: 102400},
			&core.JSONField{Name: "tickets", MaxSize: 102400},
			&core.NumberField{Name: "reputation_score", OnlyInt: true},
			&core.BoolField{Name: "is_verified"},
		)

		collection.AddIndex("idx_user_profiles_user_id", true, "user_id", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("user_profiles")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
