package apiv1

// Pong is the ping response body.
type Pong struct {
	Ping string `json:"ping"`
}

// TierInfo describes one sellable tier for the public catalog endpoint.
type TierInfo struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	PriceEUR float64        `json:"price_eur"`
	Limits   map[string]int `json:"limits"`
	Features map[string]any `json:"features"`
	AI       map[string]any `json:"ai"`
}

// ResourceUsage pairs a current count with its ceiling. Limit -1 means
// unlimited.
type ResourceUsage struct {
	Current int64 `json:"current"`
	Limit   int   `json:"limit"`
}

// AIUsage reports consumed quota for one AI action inside its window.
type AIUsage struct {
	Used   int64  `json:"used"`
	Limit  int    `json:"limit"`
	Window string `json:"window"`
}

// PlanSummary is the authenticated "my plan" response.
type PlanSummary struct {
	Plan      string                   `json:"plan"`
	Paid      bool                     `json:"paid"`
	ExpiresAt *string                  `json:"expires_at,omitempty"`
	Usage     map[string]ResourceUsage `json:"usage"`
	AI        map[string]AIUsage       `json:"ai,omitempty"`
}

// CanCreateResponse answers a capacity pre-check without side effects.
type CanCreateResponse struct {
	Resource string `json:"resource"`
	Allowed  bool   `json:"allowed"`
	Code     string `json:"code,omitempty"`
	Limit    *int   `json:"limit,omitempty"`
	Current  *int64 `json:"current,omitempty"`
	Upgrade  string `json:"upgrade,omitempty"`
}

// FeatureResponse answers a feature gate pre-check.
type FeatureResponse struct {
	Feature string `json:"feature"`
	Enabled bool   `json:"enabled"`
	Level   any    `json:"level,omitempty"`
}
