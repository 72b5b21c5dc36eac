package avm2

// Fuzz is the legacy go-fuzz entry point: parse an ABC module and link a
// VM over it, reporting interesting inputs (return 1) to go-fuzz's corpus
// the same way saferwall-pe's Fuzz gates on a successful Parse.
func Fuzz(data []byte) int {
	m, err := ParseModule(data, &Options{})
	if err != nil {
		return 0
	}
	if _, err := NewVM(m, &Options{}); err != nil {
		return 0
	}
	return 1
}
