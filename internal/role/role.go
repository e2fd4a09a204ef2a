// Package role enumerates who is onboarding onto Gabu.
package role

import (
	"fmt"
	"strings"
)

type Role int

const (
	Student Role = iota + 1
	Parent
	Teacher
)

func All() []Role {
	return []Role{Student, Parent, Teacher}
}

func Parse(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "student":
		return Student, nil
	case "parent":
		return Parent, nil
	case "teacher":
		return Teacher, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	switch r {
	case Student:
		return "student"
	case Parent:
		return "parent"
	case Teacher:
		return "teacher"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// Title is the label shown on the role picker. Adding a Role without a
// label here panics on first render.
func (r Role) Title() string {
	switch r {
	case Student:
		return "I'm a student"
	case Parent:
		return "I'm a parent"
	case Teacher:
		return "I'm a teacher"
	}
	panic(fmt.Sprintf("role: no title for %v", r))
}

func (r Role) MarshalText() ([]byte, error) {
	switch r {
	case Student, Parent, Teacher:
		return []byte(r.String()), nil
	}
	return nil, fmt.Errorf("cannot marshal %v", r)
}

func (r *Role) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
