package protocol

// Commands sent by the dashboard to the service.
const (
	EventGetSites    = "GetSites"
	EventGetSections = "GetSections"
	EventAddSection  = "AddSection"
)

// Updates pushed by the service to the dashboard.
const (
	EventSetSites    = "SetSites"
	EventSetSections = "SetSections"
)

// References name the page that asked for data, so the reply to a shared
// command lands in the right view.
const (
	RefInitSitesPage     = "InitSitesPage"
	RefInitTransfersPage = "InitTransfersPage"
	RefInitSettingsPage  = "InitSettingsPage"
	RefInitEditSitePage  = "InitEditSitePage"
)

// Site is a configured FTP site as carried in SetSites payloads.
type Site struct {
	ID       int    `json:"Id"`
	Name     string `json:"Name"`
	Hostname string `json:"Hostname"`
	Port     int    `json:"Port"`
	TLS      bool   `json:"Tls"`
	Username string `json:"Username"`
	Password string `json:"Password"`
}

// Section is a named release section as carried in SetSections payloads.
type Section struct {
	ID   int    `json:"Id"`
	Name string `json:"Name"`
}

// AddSectionData is the payload of an AddSection command.
type AddSectionData struct {
	Name string `json:"Name"`
}

// FetchRequest is the body of a one-shot request on the HTTP fallback path.
type FetchRequest struct {
	Message string `json:"Message"`
}

// Fallback request messages.
const (
	FetchSitesData    = "SitesData"
	FetchSettingsData = "SettingsData"
)

// MaskedPassword replaces site passwords in everything sent to a dashboard.
const MaskedPassword = "***"
