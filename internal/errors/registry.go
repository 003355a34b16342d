package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Loader Errors (E001-E019)
	// ============================================

	"E001": {
		Category: CategoryLoader,
		Message:  "Wrong number of child views",
		Detail:   "An image loader needs exactly three views: loaded, failed, and pending/loading, in that order.",
		DocURL:   "https://imageloader.dev/docs/errors/E001",
	},
	"E002": {
		Category: CategoryLoader,
		Message:  "Loader disposed",
		Detail:   "The loader was disposed and can no longer be updated.",
		DocURL:   "https://imageloader.dev/docs/errors/E002",
	},
	"E003": {
		Category: CategoryLoader,
		Message:  "Image failed to load",
		Detail:   "The image source could not be fetched or did not decode as an image.",
		DocURL:   "https://imageloader.dev/docs/errors/E003",
	},

	// ============================================
	// Config Errors (E100-E119)
	// ============================================

	"E100": {
		Category: CategoryConfig,
		Message:  "Config file unreadable",
		Detail:   "The configuration file exists but could not be read or parsed.",
		DocURL:   "https://imageloader.dev/docs/errors/E100",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Detail:   "The configuration file passed on the command line does not exist.",
		DocURL:   "https://imageloader.dev/docs/errors/E101",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Invalid fetch timeout",
		Detail:   "The fetch timeout must be zero (no limit) or a positive duration.",
		DocURL:   "https://imageloader.dev/docs/errors/E102",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Invalid size limit",
		Detail:   "The maximum image size must be zero (no limit) or a positive number of bytes.",
		DocURL:   "https://imageloader.dev/docs/errors/E103",
	},
	"E104": {
		Category: CategoryConfig,
		Message:  "Invalid device pixel ratio",
		Detail:   "The device pixel ratio selects srcset candidates and must be positive.",
		DocURL:   "https://imageloader.dev/docs/errors/E104",
	},
	"E105": {
		Category: CategoryConfig,
		Message:  "Invalid server address",
		Detail:   "The preview server address must have the form host:port.",
		DocURL:   "https://imageloader.dev/docs/errors/E105",
	},
	"E106": {
		Category: CategoryConfig,
		Message:  "Invalid log level",
		Detail:   "The log level must be one of debug, info, warn or error.",
		DocURL:   "https://imageloader.dev/docs/errors/E106",
	},
	"E107": {
		Category: CategoryConfig,
		Message:  "Invalid render timeout",
		Detail:   "The render timeout bounds how long the preview server waits for a load and must be positive.",
		DocURL:   "https://imageloader.dev/docs/errors/E107",
	},
	"E108": {
		Category: CategoryConfig,
		Message:  "Invalid metrics namespace",
		Detail:   "Metric namespaces may contain only letters, digits and underscores, and must not start with a digit.",
		DocURL:   "https://imageloader.dev/docs/errors/E108",
	},

	// ============================================
	// Fetch Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryFetch,
		Message:  "Object storage unavailable",
		Detail:   "The S3 client could not be configured. Check the region, endpoint and credentials.",
		DocURL:   "https://imageloader.dev/docs/errors/E120",
	},
	"E121": {
		Category: CategoryFetch,
		Message:  "Invalid base URL",
		Detail:   "Relative image sources are resolved against the base URL, which must be absolute.",
		DocURL:   "https://imageloader.dev/docs/errors/E121",
	},

	// ============================================
	// Server Errors (E140-E159)
	// ============================================

	"E140": {
		Category: CategoryServer,
		Message:  "Server failed",
		Detail:   "The preview server stopped with an error.",
		DocURL:   "https://imageloader.dev/docs/errors/E140",
	},
	"E141": {
		Category: CategoryServer,
		Message:  "Address in use",
		Detail:   "Another process is listening on the preview server address.",
		DocURL:   "https://imageloader.dev/docs/errors/E141",
	},

	// ============================================
	// CLI Errors (E160-E179)
	// ============================================

	"E160": {
		Category: CategoryCLI,
		Message:  "No image source given",
		Detail:   "The probe command needs at least one image source argument.",
		DocURL:   "https://imageloader.dev/docs/errors/E160",
	},
	"E161": {
		Category: CategoryCLI,
		Message:  "Some images did not load",
		Detail:   "At least one probed image failed or was still loading when the timeout expired.",
		DocURL:   "https://imageloader.dev/docs/errors/E161",
	},
}

// GetAllCodes returns all registered error codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
