package switcher

import "fmt"

// Device represents one PulseAudio sink from a single enumeration snapshot.
// Name doubles as the stable identifier: it's what the server reports as the
// default sink and what the set-default command takes. Index and Description
// are display-oriented.
type Device struct {
	Index       uint32
	Name        string
	Description string
}

func (d Device) String() string {
	return fmt.Sprintf("%s (%d, %s)", d.Description, d.Index, d.Name)
}
