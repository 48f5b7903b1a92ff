// internal/app/system/limits/limits.go
package limits

// Request body size limits for form posts.
// These limits help prevent memory exhaustion from oversized requests.
// CSV uploads are capped separately by contactcsv.MaxUploadSize.
const (
	// MaxContactFormSize bounds the contact create/edit form, which carries
	// the free-text comments field.
	MaxContactFormSize = 256 << 10 // 256 KB

	// MaxSmallFormSize bounds login and user administration forms.
	MaxSmallFormSize = 16 << 10 // 16 KB
)
