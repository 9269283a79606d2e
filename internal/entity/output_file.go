package entity

import "time"

// OutputFile describes a stored output image. Filename is relative to the
// output root, e.g. 2024-03-09/7b1f...c2.png.
type OutputFile struct {
	Filename  string    `db:"filename" json:"filename"`
	Format    string    `db:"format" json:"format"`
	Size      int64     `db:"size" json:"size"`
	URL       string    `db:"url" json:"url"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
