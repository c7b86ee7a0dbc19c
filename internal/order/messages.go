package order

import (
	"errors"
	"log"
)

// UserMessage turns any error from this package into the short corrective
// sentence shown to the end user. Raw error text never crosses this line.
// Configuration defects are logged so operators can tell them apart from
// ordinary transport trouble.
func UserMessage(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}

	if errors.Is(err, ErrNoBaseURL) {
		log.Printf("[gateway] configuration error: %v", err)
		return "sorry, the ordering service is unavailable right now, please try again later"
	}

	var aerr *APIError
	if errors.As(err, &aerr) {
		switch aerr.Category {
		case CategoryBadRequest:
			return "sorry, the order data looks incomplete or invalid, please review it and try again"
		case CategoryNotFound:
			return "sorry, we could not find that order in the ordering service"
		case CategoryServerError:
			return "sorry, the ordering service had an internal problem, please try again later"
		default:
			return "sorry, something went wrong talking to the ordering service, please try again"
		}
	}

	// connection failure, timeout, bad response body
	return "sorry, we could not reach the ordering service, please try again later"
}
