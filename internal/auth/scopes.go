package auth

// Known OAuth scopes used by the rewards API.
const (
	ScopeRewardsWrite = "rewards:write"
	ScopeRewardsRead  = "rewards:read"
)
