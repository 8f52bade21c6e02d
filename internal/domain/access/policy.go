package access

import (
	"time"

	"pulse/internal/domain/billing"
)

type Policy struct {
	Plan         string   `json:"plan"`
	Capabilities []string `json:"capabilities"`
	Watermark    bool     `json:"watermark"`
}

func ComputePolicy(now time.Time, sub *billing.Subscription) Policy {
	plan := EffectivePlan(now, sub)
	caps := CapabilitiesFor(plan)
	return Policy{
		Plan:         plan,
		Capabilities: caps,
		Watermark:    !Has(caps, CapHideWatermark),
	}
}

func (p Policy) Can(cap string) bool {
	return Has(p.Capabilities, cap)
}
