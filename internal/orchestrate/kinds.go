package orchestrate

import "github.com/dsf-tools/dsf-plugin-linter/internal/lintrule"

// Kinds the orchestrator itself emits for the discovery and resolution
// phases, which have no dedicated rule-engine package of their own.
const (
	KindServiceRegistrationFound lintrule.Kind = "SERVICE_LOADER_REGISTRATION_FOUND"
	KindStructuralScanFound      lintrule.Kind = "STRUCTURAL_SCAN_FOUND"

	KindResourceResolvedInRoot         lintrule.Kind = "RESOURCE_RESOLVED_IN_ROOT"
	KindResourceResolvedOutsideRoot    lintrule.Kind = "RESOURCE_RESOLVED_OUTSIDE_ROOT"
	KindResourceResolvedFromDependency lintrule.Kind = "RESOURCE_RESOLVED_FROM_DEPENDENCY"
	KindResourceNotFound               lintrule.Kind = "RESOURCE_NOT_FOUND"
)

func init() {
	entries := []lintrule.Entry{
		{Kind: KindServiceRegistrationFound, Category: "discovery", DefaultSeverity: lintrule.SeveritySuccess, DefaultMessage: "plugin manifest found via service registration"},
		{Kind: KindStructuralScanFound, Category: "discovery", DefaultSeverity: lintrule.SeveritySuccess, DefaultMessage: "plugin manifest found via structural scan"},

		{Kind: KindResourceResolvedInRoot, Category: "resolution", DefaultSeverity: lintrule.SeveritySuccess, DefaultMessage: "resource resolved inside the plugin's resource root"},
		{Kind: KindResourceResolvedOutsideRoot, Category: "resolution", DefaultSeverity: lintrule.SeverityInfo, DefaultMessage: "resource resolved outside the plugin's resource root"},
		{Kind: KindResourceResolvedFromDependency, Category: "resolution", DefaultSeverity: lintrule.SeverityInfo, DefaultMessage: "resource resolved from a nested dependency archive"},
		{Kind: KindResourceNotFound, Category: "resolution", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "referenced resource could not be resolved"},
	}
	for _, e := range entries {
		lintrule.Register(e)
	}
}
