package domain

// Rating is the user's feedback on the interaction.
type Rating string

const (
	RatingAwesome Rating = "awesome"
	RatingGood    Rating = "good"
	RatingPoor    Rating = "poor"
)

// Acknowledgement scripts spoken after a rating is submitted.
const (
	AckPositive = "Thank you! I'm glad I could help."
	AckNegative = "Thanks for the feedback. I'll try to do better next time!"
)

// Valid reports whether r is one of the accepted ratings.
func (r Rating) Valid() bool {
	switch r {
	case RatingAwesome, RatingGood, RatingPoor:
		return true
	}
	return false
}

// Acknowledgement returns the fixed script for the rating.
func (r Rating) Acknowledgement() string {
	if r == RatingAwesome || r == RatingGood {
		return AckPositive
	}
	return AckNegative
}
