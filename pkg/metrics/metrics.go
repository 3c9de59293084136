package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "profilku", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "profilku", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	ProfileFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "profilku", Name: "profile_fetches_total", Help: "Profile lookups by outcome."},
		[]string{"outcome"},
	)
	AuthEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "profilku", Name: "auth_events_total", Help: "Auth state change events emitted, by event."},
		[]string{"event"},
	)
	SignOuts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "profilku", Name: "sign_outs_total", Help: "Sign-out attempts by result."},
		[]string{"result"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(ProfileFetches)
	reg.MustRegister(AuthEvents)
	reg.MustRegister(SignOuts)
}
