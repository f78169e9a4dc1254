package authorize

import "sync/atomic"

// policyLoadHealthy tracks the health state of Casbin policy loading.
var policyLoadHealthy atomic.Bool

func init() {
	policyLoadHealthy.Store(true)
}

// IsPolicyHealthy returns true if the Casbin policy is in a healthy state.
func IsPolicyHealthy() bool {
	return policyLoadHealthy.Load()
}
