package shell

// InputState stages a submitted value out of the live input field so each
// submission is processed exactly once.
type InputState struct {
	// Query mirrors the input field
	Query string
	// UserInput holds the submission waiting to be processed
	UserInput string
}

// Submit moves the field's value into the pending slot and clears the field
func (s *InputState) Submit() {
	s.UserInput = s.Query
	s.Query = ""
}

// Take returns the pending submission and clears it
func (s *InputState) Take() string {
	input := s.UserInput
	s.UserInput = ""
	return input
}
