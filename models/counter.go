package models

// CounterState is the state of the counter demo.
type CounterState struct {
	Bears int    `json:"bears"`
	Name  string `json:"name"`
}

// CounterNameRequest is the payload for PUT /api/v1/counter/name.
type CounterNameRequest struct {
	Name string `json:"name"`
}
