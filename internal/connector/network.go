package connector

import "fmt"

// NetworkRef is a plain Network value for networks already known by ID.
type NetworkRef struct {
	ID   string
	Name string
}

func (n NetworkRef) GetID() string {
	return n.ID
}

func (n NetworkRef) GetName() string {
	if n.Name == "" {
		return n.ID
	}
	return n.Name
}

func (n NetworkRef) String() string {
	return fmt.Sprintf("%v [%v]", n.GetName(), n.ID)
}

var _ Network = NetworkRef{}
