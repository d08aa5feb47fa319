package contracts

import "context"

type IMenuController interface {
	Run(ctx context.Context) error
}
