// Package intent classifies free-form input against an ordered regex table.
package intent

import (
	"regexp"
	"strings"

	"github.com/akhellaf/deskpilot/internal/domain"
	"github.com/akhellaf/deskpilot/internal/ports"
)

type rule struct {
	re    *regexp.Regexp
	label domain.IntentLabel
}

// Matcher is the deterministic pattern-based classifier. The rule table is
// ordered; the first matching rule wins regardless of later matches.
type Matcher struct {
	rules []rule
}

// NewMatcher compiles the built-in rule table.
func NewMatcher() *Matcher {
	return &Matcher{rules: compileRules()}
}

func compileRules() []rule {
	specs := []struct {
		pattern string
		label   domain.IntentLabel
	}{
		// Specific multi-word intents come before the generic ones they
		// would otherwise shadow.
		{`(?i)\b(?:scan|list|show|find|check)\b.*\bavailable\b.*\bwifi\b|\bwifi\b.*\bavailable\b|\bnearby\b.*\b(?:wifi|networks)\b`, domain.IntentScanAvailableWifi},
		{`(?i)\b(?:scan|list|show|find)\b.*\bwifi\b|\bcheck\b\s+(?:how\s+many\s+)?.*\bwifi\b|\bwifi\b.*\b(?:networks?|profiles?|passwords?|there\s+are)\b`, domain.IntentScanWifi},
		{`(?i)\b(?:organize|sort|tidy)\b.*\b(?:files?|folder|directory|downloads)\b`, domain.IntentOrganizeFiles},
		{`(?i)\bclean\s*up\b|\bfree\s+up\b.*\b(?:space|memory|disk)\b`, domain.IntentSystemCleanup},
		{`(?i)\bproductiv`, domain.IntentProductivityBoost},
		{`(?i)\b(?:analyze|check|show)\b.*\b(?:system|memory|cpu|resources?|performance)\b|\bslowing\b.*\b(?:down|computer|pc)\b`, domain.IntentAnalyzeSystem},
		{`(?i)\b(?:press|send|hit)\b.*\b(?:keys?|shortcut|ctrl|alt|win)\b|\bkeyboard shortcut\b`, domain.IntentKeyboardShortcut},
		{`(?i)\btake\b.*\bscreenshot\b|\banalyze\b.*\bscreen\b|\bwhat(?:'s| is)\b.*\bon\b.*\bscreen\b`, domain.IntentScreenAnalysis},
		{`(?i)\b(?:browse|navigate|search)\b.*\b(?:web|internet|browser)\b|\bgo to\b.*\b(?:website|\.com|\.org)\b`, domain.IntentWebAutomation},
		{`(?i)\bautomate\b.*\b(?:task|workflow|routine)\b|\brepetitive\b.*\btask\b`, domain.IntentTaskAutomation},
		{`(?i)\b(?:click|type|move)\b.*\b(?:mouse|cursor|text)\b|\bautomat(?:e|ion)\b.*\b(?:computer|desktop)\b`, domain.IntentComputerAutomation},
		{`(?i)\b(?:execute|run)\b\s+(?:the\s+)?command\b\s*(.*)`, domain.IntentRunCommand},
		{`(?i)\b(?:open|launch|start|run)\b\s+(?:the\s+)?(?:app(?:lication)?\s+)?([\w .-]+?)(?:\s+app(?:lication)?)?\s*$`, domain.IntentOpenApp},
		{`(?i)\b(?:close|quit|exit|kill|stop)\b\s+(?:the\s+)?([\w .-]+?)(?:\s+app(?:lication)?)?\s*$`, domain.IntentCloseApp},
		{`(?i)\b(?:create|make|write)\b.*\bfile\b(?:\s+(?:called|named)\s+([\w .-]+))?`, domain.IntentCreateFile},
		{`(?i)\b(?:read|show|display|cat)\b.*\b(?:file|contents?)\b(?:\s+(?:of|from)\s+([\w .-]+))?`, domain.IntentReadFile},
		{`(?i)\b(?:list|show)\b.*\b(?:files|folder|directory)\b|\bwhat(?:'s| is)\b.*\b(?:folder|directory)\b`, domain.IntentListDirectory},
		{`(?i)\b(?:remind me|add (?:a )?task|new task|todo)\b\s*(?:to\s+)?(.*)`, domain.IntentAddTask},
		{`(?i)\b(?:complete|finish|done with|mark)\b.*\btask\b\s*(.*)`, domain.IntentCompleteTask},
		{`(?i)\b(?:ipconfig|tasklist|netstat|systeminfo|disk\s*usage|ip address|running processes)\b`, domain.IntentWindowsCommand},
		{`(?i)\b(?:windows|system)\b.*\bcommands?\b|\bwhat commands?\b`, domain.IntentSystemCommands},
	}

	rules := make([]rule, 0, len(specs))
	for _, s := range specs {
		rules = append(rules, rule{re: regexp.MustCompile(s.pattern), label: s.label})
	}
	return rules
}

// Match implements ports.IntentMatcher. On no match it returns the
// general-question intent together with ErrNoPatternMatch so callers can
// distinguish a real classification from the fallback.
func (m *Matcher) Match(input string) (domain.Intent, error) {
	trimmed := strings.TrimSpace(input)
	for _, r := range m.rules {
		groups := r.re.FindStringSubmatch(trimmed)
		if groups == nil {
			continue
		}
		entity := ""
		if len(groups) > 1 {
			entity = strings.TrimSpace(groups[1])
		}
		return domain.Intent{
			Label:      r.label,
			Entity:     entity,
			Confidence: 0.9,
			Source:     domain.SourcePattern,
		}, nil
	}
	return domain.Intent{
		Label:      domain.IntentGeneralQuestion,
		Confidence: 0.3,
		Source:     domain.SourceFallback,
	}, domain.ErrNoPatternMatch
}

var _ ports.IntentMatcher = (*Matcher)(nil)
