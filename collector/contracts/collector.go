package contracts

import "github.com/meysamhadeli/aibundle/collector/models"

type IFileTreeCollector interface {
	Collect(root string) (*models.CollectResult, error)
}
