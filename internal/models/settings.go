package models

// Settings are the persisted per-user preferences. Exactly one row exists
// per user; it is created lazily on first access.
type Settings struct {
	UserID       int64  `json:"-"`
	AutoExpand   bool   `json:"auto_expand"`
	SMTPServer   string `json:"smtp_server"`
	SMTPPort     string `json:"smtp_port"`
	SMTPUsername string `json:"smtp_username"`
	SMTPFrom     string `json:"smtp_from"`
	SMTPUseTLS   bool   `json:"smtp_use_tls"`
	AdminEmail   string `json:"admin_email"`
	ManagerEmail string `json:"manager_email"`
}

// SettingsView bundles persisted settings with the resolved reference lists
// for presentation. The lists are computed per request and never stored.
type SettingsView struct {
	Settings Settings `json:"settings"`
	Clients  []string `json:"clients"`
	Matters  []string `json:"matters"`
	Rates    []string `json:"rates"`
}
