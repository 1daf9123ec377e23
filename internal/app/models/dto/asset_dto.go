package dto

// AssetUploadResponse mirrors the fields of a Cloudinary upload answer that
// the catalog relies on, so one client speaks to both hosts.
type AssetUploadResponse struct {
	SecureURL        string `json:"secure_url" example:"http://localhost:8080/uploads/institue/0f8c.jpg"`
	PublicID         string `json:"public_id" example:"institue/0f8c"`
	OriginalFilename string `json:"original_filename,omitempty" example:"gala.jpg"`
	Bytes            int64  `json:"bytes,omitempty" example:"48213"`
	Format           string `json:"format,omitempty" example:"jpg"`
}
