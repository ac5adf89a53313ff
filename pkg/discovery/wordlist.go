package discovery

// Wordlists are deterministic label sets: candidate hostnames are built
// as <label>.<domain> with no network activity. The common list covers
// the services most organizations expose; the extended list adds
// infrastructure, development and regional labels for exhaustive modes.

var commonLabels = []string{
	"www", "mail", "remote", "blog", "webmail", "server",
	"ns1", "ns2", "smtp", "secure", "vpn", "api", "vault",
	"admin", "dev", "staging", "test", "portal", "gateway",
	"pqc", "quantum", "shield", "sentinel", "monitor",
	"auth", "sso", "identity", "iam", "keys", "crypto",
	"internal", "external", "public", "private", "prod",
}

var extendedLabels = []string{
	"app", "apps", "assets", "backup", "beta", "cache", "cdn",
	"ci", "cloud", "console", "dashboard", "data", "db", "demo",
	"docs", "download", "files", "forum", "git", "grafana", "help",
	"hsm", "imap", "intranet", "jenkins", "kibana", "ldap", "login",
	"media", "metrics", "mfa", "mobile", "mx", "news", "oauth",
	"office", "pki", "pop", "preprod", "proxy", "qa", "registry",
	"sandbox", "search", "shop", "signing", "sso2", "stage", "static",
	"stats", "status", "store", "support", "tls", "uat", "upload",
	"us-east", "us-west", "eu-central", "vpn2", "wiki", "x509",
}

// CommonWordlist returns <label>.<domain> for the common label set.
func CommonWordlist(domain string) []string {
	return expand(domain, commonLabels)
}

// ExtendedWordlist returns <label>.<domain> for the extended label set.
func ExtendedWordlist(domain string) []string {
	return expand(domain, extendedLabels)
}

func expand(domain string, labels []string) []string {
	hosts := make([]string, 0, len(labels))
	for _, label := range labels {
		hosts = append(hosts, label+"."+domain)
	}
	return hosts
}
