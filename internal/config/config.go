package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client used for directory downloads.
var UserAgent = "Go-Gabbai/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Gabbai"
	AppID             = "com.github.tartampluch.go-gabbai"
	KeyringService    = "com.github.tartampluch.go-gabbai"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	DotEnvFile        = ".env"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Commands, Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagDebug        = "debug"
	FlagDescDebug    = "Enable debug logging to stderr and the server log file"
	FlagEnglish      = "english"
	FlagDescEnglish  = "Show the English name next to the Hebrew one"
	FlagUser         = "user"
	FlagDescUser     = "Directory account name stored in the keyring"
	FlagSeed         = "seed"
	FlagDescSeed     = "Load the demo synagogues and users"
	MsgVersionOutput = "%s version %s (%s/%s)\n"

	CmdRoot       = "go-gabbai"
	CmdDescRoot   = "Hebrew calendar tools and synagogue calendar feeds"
	CmdServe      = "serve"
	CmdDescServe  = "Publish the synagogue calendar feeds over HTTP"
	CmdConvert    = "convert"
	CmdDescConv   = "Convert dates between the Hebrew and Gregorian calendars"
	CmdToGreg     = "to-gregorian DAY MONTH YEAR"
	CmdDescToGreg = "Print the Gregorian date of a Hebrew date (month 1 = Nisan, 7 = Tishrei)"
	CmdToHeb      = "to-hebrew YYYY-MM-DD"
	CmdDescToHeb  = "Print the Hebrew date of a Gregorian date"
	CmdGematria   = "gematria NUMBER|LETTERS..."
	CmdDescGem    = "Write numbers in Hebrew numerals, or read Hebrew numerals back"
	CmdParasha    = "parasha [YYYY-MM-DD]"
	CmdDescPar    = "Print the weekly portion of the Shabbat on or after a date"
	CmdMonth      = "month [MONTH YEAR]"
	CmdDescMonth  = "Print the days, holidays and portions of a Hebrew month"
	CmdSecret     = "secret"
	CmdDescSecret = "Manage credentials stored in the OS keyring"
	CmdSecretSet  = "set"
	CmdDescSetPwd = "Store the directory password read from stdin"
	CmdVersion    = "version"
	CmdDescVer    = "Print version information"

	FlagDiaspora     = "diaspora"
	FlagDescDiaspora = "Use the diaspora holiday and reading schedule"
	MsgMonthHeader   = "%s %s\n"
	MsgMonthRow      = "%-10s %-12s %s\n"
	MsgConvertHebrew = "%s (%d %d %d)\n"
)

// -----------------------------------------------------------------------------
// Hebrew Calendar Defaults
// -----------------------------------------------------------------------------

const (
	// DefaultYearsListStart and DefaultYearsListCount size the year pickers.
	DefaultYearsListStart = 5776
	DefaultYearsListCount = 21

	// CurrentPeriodBefore and CurrentPeriodAfter bound the "current period" event listing.
	CurrentPeriodBefore = 7 * 24 * time.Hour
	CurrentPeriodAfter  = 56 * 24 * time.Hour

	// FeedYearsBack and FeedYearsAhead bound the Hebrew years published in a feed.
	FeedYearsBack  = 0
	FeedYearsAhead = 1
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyCalName          = "cal_name"          // Requires Synagogue
	TKeyEvtParasha       = "event_parasha"     // Requires Name
	TKeyEvtHoliday       = "event_holiday"     // Requires Name
	TKeyEvtFast          = "event_fast"        // Requires Name
	TKeyErrForbidden     = "err_forbidden"     // Permission banner
	TKeyErrValidation    = "err_validation"    // Requires Fields
	TKeyErrConversion    = "err_conversion"    // Requires Date
	TKeyMsgNoData        = "msg_no_data"       // Empty listings
	TKeyMsgNoParasha     = "msg_no_parasha"    // Requires Date
	TKeyReportTitle      = "report_title"      // Requires Name, Year
	TKeyReportOpening    = "report_opening"    // Opening balance label
	TKeyReportClosing    = "report_closing"    // Closing balance label
	TKeyReportCharges    = "report_charges"    // Total charges label
	TKeyReportPayments   = "report_payments"   // Total payments label
	TKeyChargeAliyah     = "charge_aliyah"     // Charge kind label
	TKeyChargePledge     = "charge_pledge"     // Charge kind label
	TKeyChargePurchase   = "charge_purchase"   // Charge kind label
	TKeyMethodCash       = "method_cash"       // Payment method label
	TKeyMethodCheck      = "method_check"      // Payment method label
	TKeyMethodTransfer   = "method_transfer"   // Payment method label
	TKeyMethodCard       = "method_card"       // Payment method label
	TKeyMethodStanding   = "method_standing"   // Payment method label
	TKeyDirectorySynced  = "directory_synced"  // Requires Count
	TKeyDirectoryNoCards = "directory_nocards" // Explicit key for 0
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultPort            = "18080"
	DefaultRefreshInterval = time.Hour
	DefaultLanguage        = "he"
	DefaultTimezone        = "Asia/Jerusalem"
	DefaultCurrency        = "ILS"
	UIDSalt                = "go-gabbai-v1-" // Salt for deterministic UID generation
	SourceModeWeb          = "web"
	SourceModeLocal        = "local"
	SourceModeNone         = ""
)

// SupportedLanguages defines the list of available languages (ISO 639-1).
var SupportedLanguages = []string{"he", "en"}

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Gabbai//Feed//HE"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "gogabbai"

	// iCal/vCard Fields
	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropCategories  = "CATEGORIES"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	VCardFN    = "FN"
	VCardTel   = "TEL"
	VCardEmail = "EMAIL"
	VCardNote  = "NOTE"

	DefaultICalRefresh = 1 * time.Hour
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	DateFormatISO = "2006-01-02"

	// UID Generation
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s@%s"

	// File Extensions
	ExtICS = ".ics"

	MinPort = 1
	MaxPort = 65535
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 64 * 1024 * 1024 // 64MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteCalendars      = "/calendars/"
	AddrSeparator       = ":"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrLocalPathEmpty  = "configuration error: local path is empty"
	ErrWebURLEmpty     = "configuration error: web URL is empty"
	ErrFetcherMissing  = "internal error: network fetcher is not initialized"
	ErrModeUnsupport   = "configuration error: unsupported source mode"
	ErrEnvParse        = "configuration error: cannot parse environment"
	ErrPortRange       = "server port must be between 1 and 65535"
	ErrServerStartup   = "server startup failed"
	ErrServerShutdown  = "server shutdown failed"
	ErrPortRequired    = "server port is required"
	ErrInvalidURL      = "invalid URL structure"
	ErrProtocol        = "unsupported protocol scheme (http/https only)"
	ErrVCardParse      = "failed to parse vCard stream"
	ErrICalEncode      = "failed to encode iCalendar data"
	ErrDateParse       = "unable to parse date"
	ErrLogFile         = "failed to open log file"
	ErrCacheDir        = "could not determine user cache dir"
	ErrCreateDir       = "could not create app cache dir"
	ErrAppFailed       = "application failed unexpectedly"
	ErrWriteResp       = "failed to write response body"
	ErrLocalesAccess   = "failed to access embedded locales"
	ErrLocaleLoad      = "failed to load locale file"
	ErrSecretGet       = "failed to read secret from keyring"
	ErrSecretSet       = "failed to store secret in keyring"
	ErrSchedulerCreate = "failed to create scheduler"
	ErrSchedulerJob    = "failed to register scheduler job"
	ErrCalendarLookup  = "calendar lookup failed"
	ErrFeedBuild       = "failed to build calendar feed"
	ErrDirectorySync   = "directory synchronization failed"
	ErrNotANumber      = "not a number"
	ErrPasswordEmpty   = "password is empty"
	ErrUnknownTenant   = "directory synagogue not found"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgNotFound     = "Calendar Not Found"
)

// -----------------------------------------------------------------------------
// Fallbacks & Defaults
// -----------------------------------------------------------------------------

const (
	FallbackCalName  = "%s"
	FallbackParasha  = "Parashat %s"
	FallbackHoliday  = "%s"
	ParashaPrefixHe  = "פרשת "
	ParashaPrefixEn  = "Parashat "
	HolidaySeparator = ", "

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	MsgSyncStarted   = "Synchronization started..."
	MsgSyncFailed    = "Synchronization failed. Check logs."
	MsgWorkerStart   = "Scheduler started"
	MsgWorkerStop    = "Scheduler stopping due to context cancellation"
	MsgAppStop       = "Application stopped gracefully"
	MsgSkippedCard   = "Skipping malformed vCard"
	MsgSkippedName   = "Skipping vCard without a usable name"
	MsgGenSuccess    = "Calendar generation successful"
	MsgAppStarting   = "Starting application"
	MsgServerListen  = "HTTP server listening"
	MsgServerStop    = "Shutting down HTTP server..."
	MsgCacheUpdated  = "Calendar cache updated"
	MsgLocaleSkip    = "Skipping non-locale file"
	MsgLocaleBadName = "Skipping malformed locale filename"
	MsgLocaleLoaded  = "Locale loaded successfully"
	MsgTransMissing  = "Missing translation key"
	MsgPassFail      = "Password retrieval failed (might be empty)"
	MsgLogWarning    = "Warning: %s at %s: %v\n"
	MsgEventSkipped  = "Skipping calendar event"
	MsgLookupDegrade = "Calendar lookup failed, showing an empty day"
	MsgDirectoryDone = "Directory synchronization completed"
	MsgSeedLoaded    = "Demo data loaded"
	MsgFeedsRefresh  = "Feeds refreshed"
	MsgDotEnvSkipped = "No .env file loaded"
	MsgSecretStored  = "Secret stored in keyring"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyMode      = "mode"
	LogKeyInterval  = "interval"
	LogKeyUser      = "user"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyCount     = "count"
	LogKeyName      = "name"
	LogKeyDate      = "date"
	LogKeySlug      = "slug"
	LogKeySynagogue = "synagogue"
	LogKeyEvents    = "events"
	LogKeyTotal     = "total_cards"
	LogKeyImported  = "imported"
	LogKeyDuration  = "duration_ms"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompMain         = "main"
	CompCalendar     = "calendar"
	CompParasha      = "parasha"
	CompFeed         = "feed"
	CompServer       = "server"
	CompFetcher      = "fetcher"
	CompWorker       = "worker"
	CompI18n         = "i18n"
	CompAdmin        = "admin"
	CompCongregation = "congregation"
	CompConfig       = "config"
)
