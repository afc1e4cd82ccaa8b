package model

// Card is the projection of an accident used in the top trumps deck.
//
// Only NoOfDead is derived from the accident today. The other fields are
// part of the card layout but no rule for filling them exists yet, so they
// are written as null.
type Card struct {
	Date         any `json:"date"`
	Location     any `json:"location"`
	NoOfWounded  any `json:"no_of_wounded"`
	NoOfDead     any `json:"no_of_dead"`
	InitialCause any `json:"initial_cause"`
	Result       any `json:"result"`
}

// Deck is a seeded sample of cards. Drawing again from the same dataset with
// Seed reproduces Cards.
type Deck struct {
	Seed  int64  `json:"seed"`
	Cards []Card `json:"cards"`
}
