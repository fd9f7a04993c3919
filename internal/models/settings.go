package models

type Settings struct {
	Timezone string `json:"timezone"` // IANA timezone name or "Local"
}
