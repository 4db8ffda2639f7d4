package openpanel

// Tracking types select server-side handling of a payload.
const (
	TrackingTypeTrack     = "track"
	TrackingTypeIdentify  = "identify"
	TrackingTypeIncrement = "increment"
	TrackingTypeDecrement = "decrement"
)

const (
	defaultIncrementProperty = "visits"
	defaultIncrementValue    = 1
	revenueEventName         = "revenue"
)

// IdentifyUser is a profile to identify or adjust.
type IdentifyUser struct {
	// ProfileID addresses the profile. Required by Identify and the
	// property increment/decrement operations.
	ProfileID string `json:"profileId"`
	// Email is the user's email address.
	Email string `json:"email"`
	// FirstName is the user's first name.
	FirstName string `json:"firstName"`
	// LastName is the user's last name.
	LastName string `json:"lastName"`
	// Properties are arbitrary profile traits.
	Properties map[string]any `json:"properties"`
}

// envelope is the body of every request to the tracking endpoint.
type envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// trackPayload is the payload of a "track" request.
type trackPayload struct {
	Name       string         `json:"name"`
	Properties map[string]any `json:"properties"`
}

// identifyPayload is the payload of an "identify" request.
type identifyPayload struct {
	ProfileID  string         `json:"profileId"`
	FirstName  string         `json:"firstName"`
	LastName   string         `json:"lastName"`
	Email      string         `json:"email"`
	Properties map[string]any `json:"properties"`
}

// propertyPayload is the payload of "increment" and "decrement" requests.
type propertyPayload struct {
	ProfileID string `json:"profileId"`
	Property  string `json:"property"`
	Value     int    `json:"value"`
}

// mergeProperties returns a new map holding every layer's keys; later layers
// win on collision. The result is never nil so it encodes as {}.
func mergeProperties(layers ...map[string]any) map[string]any {
	size := 0
	for _, l := range layers {
		size += len(l)
	}
	merged := make(map[string]any, size)
	for _, l := range layers {
		for k, v := range l {
			merged[k] = v
		}
	}
	return merged
}
