package models

/*
Viewer identifies one browser visiting the gallery. It is what
gets stored in the cookie session.
*/
type Viewer struct {
	ID string
}
