package input

import "context"

type ProfileDemo interface {
	Run(ctx context.Context, profileName string) error
}
