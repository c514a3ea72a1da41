package entity

// MediaUpload is the result of storing a binary asset in the bucket.
type MediaUpload struct {
	URL      string `json:"url"`
	FileName string `json:"fileName"`
	Size     int64  `json:"size"`
}

// Image holds the hosted URLs of an uploaded image in both variants.
type Image struct {
	FullSize   string `json:"full_size"`
	Compressed string `json:"compressed"`
}
