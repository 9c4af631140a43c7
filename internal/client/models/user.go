// Package models defines client-side data models used by the health dashboard.
package models

// User is the identity and profile returned by the auth API.
// Height, Weight, Age and Gender are free-form strings without units.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Height string `json:"height,omitempty"`
	Weight string `json:"weight,omitempty"`
	Age    string `json:"age,omitempty"`
	Gender string `json:"gender,omitempty"`
}

// UserPatch carries a partial profile update. Nil fields are left untouched.
// Email is not patchable once the account exists.
type UserPatch struct {
	Name   *string `json:"name,omitempty"`
	Height *string `json:"height,omitempty"`
	Weight *string `json:"weight,omitempty"`
	Age    *string `json:"age,omitempty"`
	Gender *string `json:"gender,omitempty"`
}

// IsEmpty reports whether the patch sets no field.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Height == nil && p.Weight == nil && p.Age == nil && p.Gender == nil
}

// Apply returns a copy of u with the patch merged in.
func (p UserPatch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Height != nil {
		u.Height = *p.Height
	}
	if p.Weight != nil {
		u.Weight = *p.Weight
	}
	if p.Age != nil {
		u.Age = *p.Age
	}
	if p.Gender != nil {
		u.Gender = *p.Gender
	}
	return u
}

// TokenPair is the access/refresh credential pair issued on login or registration.
type TokenPair struct {
	Access  string
	Refresh string
}

// IsZero reports whether neither token is set.
func (t TokenPair) IsZero() bool {
	return t.Access == "" && t.Refresh == ""
}
