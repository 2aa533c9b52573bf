package tokens

import "github.com/queuedesk/queuedesk-backend/pkg/enums"

// Terminal states absorb every action; only ACTIVE tokens move.
var transitionMap = map[string][]enums.TokenStatus{
	"request_finish": {enums.TokenStatusActive},
	"verify_finish":  {enums.TokenStatusActive},
	"cancel":         {enums.TokenStatusActive},
}

func validTransition(action string, from enums.TokenStatus) bool {
	allowed, ok := transitionMap[action]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == from {
			return true
		}
	}
	return false
}
