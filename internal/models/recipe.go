package models

// Recipe is returned with its owning user nested, so clients never see a bare user_id.
type Recipe struct {
	ID                int    `json:"id"`
	Title             string `json:"title"`
	Instructions      string `json:"instructions"`
	MinutesToComplete *int   `json:"minutes_to_complete"`
	User              User   `json:"user"`
}
