package fetch

import (
	"net/url"
	"strings"
)

// Platform is a job board whose markup we know.
type Platform string

// Known platforms
const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformLinkedIn   Platform = "linkedin"
	PlatformUnknown    Platform = "unknown"
)

type platformRule struct {
	platform Platform
	hosts    []string
	content  []string
	noise    []string
	// spa pages render their description client-side.
	spa      bool
}

var platformRules = []platformRule{
	{
		platform: PlatformGreenhouse,
		hosts:    []string{"greenhouse.io"},
		content:  []string{".job__description.body", ".job__description", "#content", ".job-post-container"},
		noise:    []string{".application--wrapper", ".voluntary-self-id", "#usa_self_id_section", ".post-apply"},
	},
	{
		platform: PlatformLever,
		hosts:    []string{"lever.co"},
		content:  []string{".posting-page", ".posting-description", ".content"},
		noise:    []string{".apply-section", ".lever-application-form", ".posting-apply"},
	},
	{
		platform: PlatformWorkday,
		hosts:    []string{"workday.com", "myworkdayjobs.com"},
		content:  []string{"[data-automation-id='jobPostingDescription']", "[data-automation-id='jobDescription']", ".job-description"},
		noise:    []string{"[data-automation-id='applyButton']", ".application-section"},
		spa:      true,
	},
	{
		platform: PlatformLinkedIn,
		hosts:    []string{"linkedin.com"},
		content:  []string{".show-more-less-html__markup", ".description__text", ".jobs-description"},
		noise:    []string{".sign-in-modal", ".join-form", ".similar-jobs"},
	},
}

// noiseCommon is stripped from every job page.
var noiseCommon = []string{
	"form",
	".application-form",
	".apply-button-container",
	".eeo-statement",
	".eeo-section",
	".legal-disclosure",
	".social-share",
	".share-buttons",
	".cookie-consent",
	".gdpr-notice",
}

// DetectPlatform identifies the job board from a URL's host.
func DetectPlatform(urlStr string) Platform {
	if rule := ruleFor(urlStr); rule != nil {
		return rule.platform
	}
	return PlatformUnknown
}

// ContentSelectors returns the content selectors to try for a URL.
func ContentSelectors(urlStr string) []string {
	if rule := ruleFor(urlStr); rule != nil {
		return append(append([]string{}, rule.content...), JobPostingSelectors()...)
	}
	return JobPostingSelectors()
}

// NoiseSelectors returns the selectors to remove before extracting text from a URL.
func NoiseSelectors(urlStr string) []string {
	noise := append([]string{}, noiseCommon...)
	if rule := ruleFor(urlStr); rule != nil {
		noise = append(noise, rule.noise...)
	}
	return noise
}

// RequiresBrowser reports whether pages from this host are rendered client-side.
func RequiresBrowser(urlStr string) bool {
	rule := ruleFor(urlStr)
	return rule != nil && rule.spa
}

func ruleFor(urlStr string) *platformRule {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil
	}
	host := strings.ToLower(parsed.Hostname())
	for i := range platformRules {
		for _, h := range platformRules[i].hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return &platformRules[i]
			}
		}
	}
	return nil
}
