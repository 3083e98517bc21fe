package delivery

import (
	"context"

	"github.com/shandysiswandi/gorecover/internal/recovery/entity"
)

const (
	ModeDirect = "direct"
	ModeBroker = "broker"
)

// Direct hands the code back to the HTTP caller instead of sending it anywhere.
// It exists for development and for deployments with no mail pipeline.
type Direct struct{}

func NewDirect() Direct { return Direct{} }

func (Direct) Deliver(context.Context, entity.OtpDelivery) error { return nil }

func (Direct) RevealsCode() bool { return true }
