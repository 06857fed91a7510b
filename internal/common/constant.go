package common

// AuthorizationHeader carries the bearer credential on native requests.
// The web client never sets it; browsers authenticate with the session
// cookie instead.
const AuthorizationHeader = "Authorization"

// BearerScheme is the expected Authorization scheme for native tokens.
const BearerScheme = "Bearer"

// SessionCookieName is the browser session cookie set at web login.
const SessionCookieName = "lunamood_session"
