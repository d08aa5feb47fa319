package contracts

import "github.com/meysamhadeli/aibundle/collector/models"

type ISnapshotStore interface {
	Save(sections models.Sections) error
	Load() (string, error)
	Path() string
}
