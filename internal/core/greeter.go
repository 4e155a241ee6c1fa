package core

import "fmt"

const greetingFormat = "Hello, %s! You've been greeted from Rust!"

// Greet returns the fixed greeting for name. The name is inserted verbatim:
// no trimming, escaping, or length limit.
func Greet(name string) string {
	return fmt.Sprintf(greetingFormat, name)
}
