package generator

import (
	"encoding/json"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/models"
)

// Generator produces realistic demo security logs for seeding and testing.
type Generator struct {
	rng *rand.Rand
}

func New() *Generator {
	return &Generator{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func NewWithSeed(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

var sampleIPs = []string{
	"192.168.1.100", "10.0.0.50", "172.16.0.25",
	"203.0.113.42", "198.51.100.78", "45.33.32.156",
	"185.220.101.23", "89.248.165.12", "23.95.190.45",
}

var sampleUsernames = []string{
	"admin", "user1", "john.doe", "jane.smith",
	"dbadmin", "root", "service_account", "test_user",
}

var sampleUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
	"curl/7.68.0",
	"python-requests/2.25.1",
	"PostmanRuntime/7.28.4",
}

var descriptionTemplates = map[models.EventType][]string{
	models.EventLoginAttempt: {
		"Successful login from {ip}",
		"User {user} logged in successfully",
		"Login attempt from {ip}",
	},
	models.EventFailedLogin: {
		"Failed login attempt for user {user}",
		"Invalid password for {user} from {ip}",
		"Multiple failed login attempts detected",
	},
	models.EventBruteForce: {
		"Brute force attack detected from {ip}",
		"Multiple rapid login attempts from {ip}",
		"Potential brute force attack on account {user}",
	},
	models.EventMalwareDetected: {
		"Malware signature detected in file",
		"Suspicious executable blocked",
		"Trojan detected and quarantined",
	},
	models.EventUnauthorizedAccess: {
		"Unauthorized access attempt to database",
		"Access denied for {user} to restricted area",
		"Privilege escalation attempt detected",
	},
	models.EventDataExfiltration: {
		"Large data transfer detected to {ip}",
		"Suspicious data export activity",
		"Unauthorized data access and download",
	},
	models.EventSuspiciousActivity: {
		"Unusual user behavior detected",
		"Off-hours access from {user}",
		"Anomalous network traffic pattern",
	},
	models.EventPolicyViolation: {
		"Security policy violation by {user}",
		"Unapproved software installation detected",
		"Policy breach: unauthorized software",
	},
	models.EventNetworkAnomaly: {
		"Unusual network traffic from {ip}",
		"Port scan detected from {ip}",
		"Abnormal bandwidth usage",
	},
	models.EventFileIntegrity: {
		"File integrity check failed",
		"Unauthorized file modification detected",
		"Critical system file changed",
	},
}

// severityFor maps an event type to a plausible severity for demo data.
func (g *Generator) severityFor(eventType models.EventType) models.Severity {
	switch eventType {
	case models.EventLoginAttempt:
		return models.SeverityLow
	case models.EventFailedLogin:
		return g.pick(models.SeverityLow, models.SeverityMedium)
	case models.EventBruteForce:
		return g.pick(models.SeverityHigh, models.SeverityCritical)
	case models.EventMalwareDetected:
		return models.SeverityCritical
	case models.EventUnauthorizedAccess:
		return g.pick(models.SeverityHigh, models.SeverityCritical)
	case models.EventDataExfiltration:
		return models.SeverityCritical
	case models.EventSuspiciousActivity:
		return g.pick(models.SeverityMedium, models.SeverityHigh)
	case models.EventPolicyViolation:
		return models.SeverityMedium
	case models.EventNetworkAnomaly:
		return g.pick(models.SeverityMedium, models.SeverityHigh)
	case models.EventFileIntegrity:
		return models.SeverityHigh
	}
	return models.SeverityMedium
}

// GenerateLog builds a single demo log entry with a random event type.
func (g *Generator) GenerateLog() *models.SecurityLog {
	eventType := models.EventTypes[g.rng.Intn(len(models.EventTypes))]
	sourceIP := sampleIPs[g.rng.Intn(len(sampleIPs))]
	username := sampleUsernames[g.rng.Intn(len(sampleUsernames))]

	templates := descriptionTemplates[eventType]
	description := templates[g.rng.Intn(len(templates))]
	description = strings.ReplaceAll(description, "{ip}", sourceIP)
	description = strings.ReplaceAll(description, "{user}", username)

	rawLog, _ := json.Marshal(map[string]string{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"event":     string(eventType),
		"details":   description,
	})

	return &models.SecurityLog{
		Timestamp:     time.Now().UTC(),
		EventType:     eventType,
		Severity:      g.severityFor(eventType),
		SourceIP:      sourceIP,
		DestinationIP: sampleIPs[g.rng.Intn(len(sampleIPs))],
		UserAgent:     sampleUserAgents[g.rng.Intn(len(sampleUserAgents))],
		Username:      username,
		Description:   description,
		RawLog:        string(rawLog),
	}
}

// GenerateBatch builds count demo log entries.
func (g *Generator) GenerateBatch(count int) []*models.SecurityLog {
	logs := make([]*models.SecurityLog, 0, count)
	for i := 0; i < count; i++ {
		logs = append(logs, g.GenerateLog())
	}
	return logs
}

// GenerateTimeline builds roughly 50 logs per day spread over the trailing
// days, sorted by timestamp.
func (g *Generator) GenerateTimeline(days int) []*models.SecurityLog {
	total := days * 50
	span := int64(days) * 24 * 60 * 60
	start := time.Now().UTC().AddDate(0, 0, -days)

	logs := make([]*models.SecurityLog, 0, total)
	for i := 0; i < total; i++ {
		entry := g.GenerateLog()
		entry.Timestamp = start.Add(time.Duration(g.rng.Int63n(span)) * time.Second)
		logs = append(logs, entry)
	}

	sort.Slice(logs, func(i, j int) bool {
		return logs[i].Timestamp.Before(logs[j].Timestamp)
	})
	return logs
}

func (g *Generator) pick(options ...models.Severity) models.Severity {
	return options[g.rng.Intn(len(options))]
}
