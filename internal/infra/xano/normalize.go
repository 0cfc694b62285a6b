package xano

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/robertboulos/clearleads/internal/core/domain"
)

// The backend's validation response shape has changed across iterations.
// Rather than sniffing fields ad hoc, every payload is classified into one
// of the shapes below and normalized by a total function: malformed or
// unrecognized payloads degrade to StatusUnknown instead of failing the call.
type responseShape int

const (
	shapeUnknown responseShape = iota
	// shapeFlat: {"email":{"valid":bool,"provided":bool},"phone":{...},"credits_remaining":int}
	shapeFlat
	// shapeDetailed: {"validation_status":..., "validation_details":{"email_result":{...},"phone_result":{...}}}
	shapeDetailed
)

type channelFlag struct {
	Valid    bool `json:"valid"`
	Provided bool `json:"provided"`
}

type flatPayload struct {
	Email            *channelFlag `json:"email"`
	Phone            *channelFlag `json:"phone"`
	Cached           bool         `json:"cached"`
	CreditsRemaining *int         `json:"credits_remaining"`
}

type detailedPayload struct {
	ID               json.Number `json:"id"`
	Email            string      `json:"email"`
	Phone            string      `json:"phone"`
	ValidationStatus string      `json:"validation_status"`
	ValidationDetails struct {
		EmailResult map[string]any `json:"email_result"`
		PhoneResult map[string]any `json:"phone_result"`
	} `json:"validation_details"`
	CreditsUsed int             `json:"credits_used"`
	CreatedAt   json.RawMessage `json:"created_at"`
	Cached      bool            `json:"cached"`
}

func classify(raw []byte) (responseShape, *flatPayload, *detailedPayload) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return shapeUnknown, nil, nil
	}

	if _, ok := probe["validation_details"]; ok {
		var detailed detailedPayload
		if err := json.Unmarshal(raw, &detailed); err == nil {
			return shapeDetailed, nil, &detailed
		}
		return shapeUnknown, nil, nil
	}

	if _, ok := probe["validation_status"]; ok {
		var detailed detailedPayload
		if err := json.Unmarshal(raw, &detailed); err == nil {
			return shapeDetailed, nil, &detailed
		}
		return shapeUnknown, nil, nil
	}

	if hasObjectField(probe, "email") || hasObjectField(probe, "phone") {
		var flat flatPayload
		if err := json.Unmarshal(raw, &flat); err == nil {
			return shapeFlat, &flat, nil
		}
	}

	return shapeUnknown, nil, nil
}

func hasObjectField(probe map[string]json.RawMessage, key string) bool {
	raw, ok := probe[key]
	if !ok {
		return false
	}
	var obj map[string]json.RawMessage
	return json.Unmarshal(raw, &obj) == nil
}

// Normalize converts a raw backend validation payload into the canonical
// result shape. It never fails: anything it cannot interpret yields an
// unknown status with zero confidence and empty details.
func Normalize(req domain.ValidationRequest, raw json.RawMessage, now time.Time) domain.ValidationOutcome {
	outcome := domain.ValidationOutcome{
		Result: domain.ValidationResult{
			Email:       req.Email,
			Phone:       req.Phone,
			CreditsUsed: 1,
			Details:     map[string]string{},
			CreatedAt:   now,
		},
	}

	var emailFlag, phoneFlag *bool

	shape, flat, detailed := classify(raw)
	switch shape {
	case shapeFlat:
		if flat.Email != nil {
			emailFlag = &flat.Email.Valid
		}
		if flat.Phone != nil {
			phoneFlag = &flat.Phone.Valid
		}
		if flat.CreditsRemaining != nil {
			outcome.CreditsRemaining = *flat.CreditsRemaining
			outcome.HasCreditsRemaining = true
		}
		outcome.Cached = flat.Cached

	case shapeDetailed:
		emailFlag, phoneFlag = detailedFlags(detailed)
		outcome.Result.Details = flattenDetails(detailed)
		if detailed.CreditsUsed > 0 {
			outcome.Result.CreditsUsed = detailed.CreditsUsed
		}
		if id := detailed.ID.String(); id != "" && id != "0" {
			outcome.Result.ID = id
		}
		if detailed.Email != "" {
			outcome.Result.Email = detailed.Email
		}
		if detailed.Phone != "" {
			outcome.Result.Phone = detailed.Phone
		}
		outcome.Result.CreatedAt = parseTimestamp(detailed.CreatedAt, now)
		outcome.Cached = detailed.Cached
	}

	outcome.Result.Status = deriveStatus(emailFlag, phoneFlag)
	if outcome.Result.Status == domain.StatusValid {
		outcome.Result.Confidence = 100
	}

	if outcome.Result.ID == "" {
		outcome.Result.ID = strconv.FormatInt(now.UnixNano(), 10)
	}

	return outcome
}

// deriveStatus folds the per-channel validity flags into one status: valid
// when any flag is true, invalid when flags exist but none is true, unknown
// when no flag was found at all.
func deriveStatus(emailFlag, phoneFlag *bool) domain.ValidationStatus {
	if emailFlag == nil && phoneFlag == nil {
		return domain.StatusUnknown
	}
	if (emailFlag != nil && *emailFlag) || (phoneFlag != nil && *phoneFlag) {
		return domain.StatusValid
	}
	return domain.StatusInvalid
}

func detailedFlags(detailed *detailedPayload) (emailFlag, phoneFlag *bool) {
	if emailResult := detailed.ValidationDetails.EmailResult; emailResult != nil {
		valid := false
		if status, ok := emailResult["status"].(string); ok {
			valid = status == "valid"
		} else if flag, ok := emailResult["valid"].(bool); ok {
			valid = flag
		}
		emailFlag = &valid
	}
	if phoneResult := detailed.ValidationDetails.PhoneResult; phoneResult != nil {
		valid, _ := phoneResult["valid"].(bool)
		phoneFlag = &valid
	}
	return emailFlag, phoneFlag
}

// flattenDetails merges per-channel metadata into the flat detail map.
// Phone-derived values are written first so that email-derived values win
// on key collisions (country in particular), matching product behavior.
func flattenDetails(detailed *detailedPayload) map[string]string {
	details := map[string]string{}

	if phoneResult := detailed.ValidationDetails.PhoneResult; phoneResult != nil {
		copyDetail(details, phoneResult, "carrier", "carrier")
		copyDetail(details, phoneResult, "line_type", "lineType")
		copyDetail(details, phoneResult, "country_name", "country")
	}

	if emailResult := detailed.ValidationDetails.EmailResult; emailResult != nil {
		copyDetail(details, emailResult, "domain", "domain")
		copyDetail(details, emailResult, "provider", "provider")
		copyDetail(details, emailResult, "disposable", "disposable")
		copyDetail(details, emailResult, "country", "country")
	}

	return details
}

func copyDetail(details map[string]string, source map[string]any, sourceKey, targetKey string) {
	value, ok := source[sourceKey]
	if !ok {
		return
	}
	details[targetKey] = domain.CoerceDetail(value)
}

// parseTimestamp accepts RFC3339 strings and unix epochs (seconds or
// milliseconds); anything else falls back to the supplied time.
func parseTimestamp(raw json.RawMessage, fallback time.Time) time.Time {
	if len(raw) == 0 {
		return fallback
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		if ts, err := time.Parse(time.RFC3339Nano, asString); err == nil {
			return ts
		}
		if ts, err := time.Parse(time.RFC3339, asString); err == nil {
			return ts
		}
		return fallback
	}

	var asNumber float64
	if err := json.Unmarshal(raw, &asNumber); err == nil && asNumber > 0 {
		epoch := int64(asNumber)
		if epoch > 1e12 {
			return time.UnixMilli(epoch).UTC()
		}
		return time.Unix(epoch, 0).UTC()
	}

	return fallback
}
