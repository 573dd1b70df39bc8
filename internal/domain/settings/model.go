package settings

// Well-known keys in the remote settings table. Each logical setting is a
// row keyed by one of these strings; the about content is one serialized
// JSON value under KeyAboutContent.
const (
	KeyLogoURL      = "logo_url"
	KeyAppName      = "app_name"
	KeyAppSubtitle  = "app_subtitle"
	KeyAboutContent = "about_content"
)

// AppSettings is the singleton branding configuration.
type AppSettings struct {
	LogoURL     string
	AppName     string
	AppSubtitle string
}

// AboutContent is the singleton about-page text block, persisted as a
// single JSON blob.
type AboutContent struct {
	Intro   string `json:"intro"`
	Vision  string `json:"vision"`
	Mission string `json:"mission"`
	Values  string `json:"values"`
}

// DefaultAppSettings returns the branding used before any admin edit.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		AppName:     "Clubhouse",
		AppSubtitle: "Member activity & points tracker",
	}
}

// DefaultAboutContent returns the about block used before any admin edit.
func DefaultAboutContent() AboutContent {
	return AboutContent{
		Intro:   "Welcome to the club.",
		Vision:  "A community where every member contributes.",
		Mission: "Recognise and reward member participation.",
		Values:  "Participation, transparency, fun.",
	}
}
