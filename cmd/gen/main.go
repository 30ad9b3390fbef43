package main

import (
	"taskboard/internal/infra/persistence/model"

	"gorm.io/gen"
)

func main() {
	models := []any{
		model.TenantModel{},
		model.AccountModel{},
		model.LedgerEntryModel{},
		model.WorkspaceModel{},
		model.GroupModel{},
		model.TaskModel{},
	}

	gen := gen.NewGenerator(gen.Config{
		OutPath: "./internal/infra/persistence/postgres/query",
	})

	gen.ApplyBasic(models...)

	gen.Execute()
}
