// Package orchestrate sequences a full lint run against a single DSF
// process-plugin archive: manifest discovery, resource resolution, and
// the BPMN/FHIR rule engines, assembling their outputs into one
// lintrule.Report (spec.md §4, §5, §8 scenarios S1-S6).
package orchestrate

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/dsf-tools/dsf-plugin-linter/internal/bpmndom"
	"github.com/dsf-tools/dsf-plugin-linter/internal/bpmnlint"
	"github.com/dsf-tools/dsf-plugin-linter/internal/fhirjson"
	"github.com/dsf-tools/dsf-plugin-linter/internal/fhirlint"
	"github.com/dsf-tools/dsf-plugin-linter/internal/lintctx"
	"github.com/dsf-tools/dsf-plugin-linter/internal/lintrule"
	"github.com/dsf-tools/dsf-plugin-linter/internal/manifest"
	"github.com/dsf-tools/dsf-plugin-linter/internal/resolve"
	"github.com/dsf-tools/dsf-plugin-linter/internal/resource"
	"github.com/dsf-tools/dsf-plugin-linter/internal/xmldom"
)

// Disposition is the run's exit-code classification (spec.md §6).
type Disposition int

const (
	// DispositionOK means exit 0: the run completed and either found no
	// items at or above the configured fail-level, or --no-fail was set.
	DispositionOK Disposition = iota
	// DispositionFindings means exit 1: the run completed but found items
	// at or above the configured fail-level and --no-fail was not set.
	DispositionFindings
	// DispositionFatal means exit 2: the run could not complete at all.
	DispositionFatal
)

// Options configures a single Run.
type Options struct {
	ArchivePath string

	Overrides          map[lintrule.Kind]lintrule.Severity
	AuthorizationCodes map[string]bool
	FailLevel          lintrule.Severity
	NoFail             bool
	Channel            lintctx.Channel
	Deadline           lintctx.Context // Deadline field is read; Channel above wins if set

	// ClassResolverProvider overrides the default (archive-only) provider
	// used for implementation-class checks; tests can substitute a
	// Composite that also sees nested dependency archives.
	ClassResolverProvider resource.Provider
}

// Result is the outcome of a Run: the assembled report plus its exit
// disposition. RunID is a synthetic identifier stamped on every run so
// callers can correlate a partial (TimedOut) report across retries.
type Result struct {
	Report      lintrule.Report
	Disposition Disposition
	RunID       string
	Fatal       *lintctx.FatalError
}

// Run executes the full pipeline against a single archive (spec.md §4:
// discovery, resolution, BPMN lint, FHIR lint) and returns the assembled
// report with its exit disposition. A FatalError aborts before any
// report body is produced (spec.md §7).
func Run(ctx context.Context, opts Options) (Result, error) {
	runID := uuid.NewString()

	lc := opts.Deadline
	if opts.Channel != nil {
		lc.Channel = opts.Channel
	}
	if lc.Channel == nil {
		lc.Channel = lintctx.NopChannel{}
	}

	archive, err := resource.OpenArchive(opts.ArchivePath)
	if err != nil {
		return Result{
			RunID:       runID,
			Disposition: DispositionFatal,
			Fatal:       &lintctx.FatalError{Kind: lintctx.FatalArchiveUnreadable, Message: err.Error()},
		}, nil
	}
	defer archive.Close()

	runCtx, cancel := lc.GoContext(ctx)
	defer cancel()

	lc.Channel.Progress("discovery", -1)
	m, ferr := manifest.Discover(archive)
	if ferr != nil {
		return Result{RunID: runID, Disposition: DispositionFatal, Fatal: ferr}, nil
	}

	var report lintrule.Report
	report.Discovery = append(report.Discovery, discoveryItem(opts.Overrides, m))

	resolver := resolve.New(archive, "", resolve.ConventionalLayout, nil)
	defer resolver.Close()

	if err := resolver.DiscoverDependencyArchives(func(ref resource.Ref) (resource.Provider, error) {
		data, err := archive.ReadFull(ref.String())
		if err != nil {
			return nil, err
		}
		return resource.NewArchiveFromBytes(bytes.NewReader(data), int64(len(data)))
	}); err != nil {
		return Result{}, fmt.Errorf("orchestrate: discover dependency archives: %w", err)
	}

	classProvider := opts.ClassResolverProvider
	if classProvider == nil {
		classProvider = archive
	}

	lc.Channel.Progress("resolution", -1)
	resolvedBPMN := resolveRefs(runCtx, resolver, &report, opts.Overrides, m.ProcessModelRefs)

	var allFHIRRefs []resource.Ref
	seenFHIRRefs := make(map[resource.Ref]bool)
	for _, pid := range m.ProcessIDOrder {
		for _, ref := range m.FHIRRefsByProcessID[pid] {
			if seenFHIRRefs[ref] {
				continue
			}
			seenFHIRRefs[ref] = true
			allFHIRRefs = append(allFHIRRefs, ref)
		}
	}
	resolvedFHIR := resolveRefs(runCtx, resolver, &report, opts.Overrides, allFHIRRefs)

	if lc.Expired() {
		report.TimedOut = true
		return finish(runID, report, opts), nil
	}

	// FHIR documents are parsed up front (not just resolved) so the BPMN
	// pass below can cross-reference message names against them (spec.md
	// §4.4 "Message name") before a single BPMN item is produced.
	index := fhirlint.NewIndex()
	index.AuthorizationCodes = opts.AuthorizationCodes
	parsed := parseFHIRFiles(resolvedFHIR)
	populateFHIRIndex(index, parsed)

	bpmnLinter := &bpmnlint.Linter{
		Catalogue: lintrule.DefaultCatalogue(),
		Overrides: opts.Overrides,
		Classes:   bpmnlint.NewClassResolver(classProvider),
		MessageNames: bpmnlint.MessageNameIndex{
			ActivityDefinition:  index.ActivityDefinitionMessageNames,
			StructureDefinition: index.StructureDefinitionMessageNames,
		},
		Recover: &lc,
	}

	lc.Channel.Progress("bpmn", -1)
	for _, rf := range resolvedBPMN {
		if lc.Expired() {
			report.TimedOut = true
			break
		}
		report.BPMN = append(report.BPMN, lintBPMNFile(bpmnLinter, rf)...)
	}

	if !report.TimedOut {
		lc.Channel.Progress("fhir", -1)
		fhirLinter := fhirlint.New(index)
		fhirLinter.Overrides = opts.Overrides
		fhirLinter.Recover = &lc
		for _, pf := range parsed {
			if lc.Expired() {
				report.TimedOut = true
				break
			}
			if pf.err != nil {
				report.FHIR = append(report.FHIR, fhirLinter.UnparsableFile(pf.file, pf.err))
				continue
			}
			report.FHIR = append(report.FHIR, fhirLinter.LintFile(pf.doc)...)
		}
	}

	return finish(runID, report, opts), nil
}

func finish(runID string, report lintrule.Report, opts Options) Result {
	result := Result{RunID: runID, Report: report, Disposition: DispositionOK}
	if opts.NoFail || opts.FailLevel == lintrule.SeverityOff {
		return result
	}
	if report.HasAtLeast(opts.FailLevel) {
		result.Disposition = DispositionFindings
	}
	return result
}

func discoveryItem(overrides map[lintrule.Kind]lintrule.Severity, m *manifest.PluginManifest) lintrule.LintItem {
	kind := KindStructuralScanFound
	if m.Strategy == manifest.StrategyServiceRegistration {
		kind = KindServiceRegistrationFound
	}
	return lintrule.New(lintrule.DefaultCatalogue(), kind, lintrule.FileLocation(""), m.Name,
		fmt.Sprintf("manifest %q discovered (%s, API %s)", m.Name, m.Strategy, m.APIGeneration), overrides)
}

// resolvedFile pairs a reference with its resolution outcome so later
// phases can open and parse it without re-resolving.
type resolvedFile struct {
	ref resource.Ref
	res *resolve.ResolvedResource
}

// resolveRefs resolves every ref, appending one Resolution LintItem each
// (spec.md §8 S2/S4), and returns only the ones that actually resolved.
func resolveRefs(ctx context.Context, resolver *resolve.Resolver, report *lintrule.Report, overrides map[lintrule.Kind]lintrule.Severity, refs []resource.Ref) []resolvedFile {
	var out []resolvedFile
	for _, ref := range refs {
		rr, err := resolver.Resolve(ctx, ref.String())
		if err != nil {
			report.Resolution = append(report.Resolution, lintrule.Newf(lintrule.DefaultCatalogue(), KindResourceNotFound,
				lintrule.FileLocation(ref.String()), ref.String(), overrides, "resource could not be resolved: %v", err))
			continue
		}
		report.Resolution = append(report.Resolution, resolutionItem(overrides, rr))
		if rr.Provenance != resolve.NotFound {
			out = append(out, resolvedFile{ref: ref, res: rr})
		}
	}
	return out
}

func resolutionItem(overrides map[lintrule.Kind]lintrule.Severity, rr *resolve.ResolvedResource) lintrule.LintItem {
	var kind lintrule.Kind
	var msg string
	switch rr.Provenance {
	case resolve.InRoot:
		kind, msg = KindResourceResolvedInRoot, "resolved inside the plugin's resource root"
	case resolve.OutsideRoot:
		kind, msg = KindResourceResolvedOutsideRoot, "resolved outside the plugin's resource root"
	case resolve.FromDependency:
		kind, msg = KindResourceResolvedFromDependency, fmt.Sprintf("resolved from dependency archive %s", rr.ActualLocation)
	default:
		kind, msg = KindResourceNotFound, "referenced resource could not be resolved"
	}
	return lintrule.New(lintrule.DefaultCatalogue(), kind, lintrule.FileLocation(rr.Reference.String()), rr.Reference.String(), msg, overrides)
}

func lintBPMNFile(linter *bpmnlint.Linter, rf resolvedFile) []lintrule.LintItem {
	rc, err := rf.res.Open()
	if err != nil {
		return []lintrule.LintItem{linter.UnparsableFile(rf.ref.String(), err)}
	}
	defer rc.Close()

	doc, err := bpmndom.Parse(rc, rf.ref.String())
	if err != nil {
		return []lintrule.LintItem{linter.UnparsableFile(rf.ref.String(), err)}
	}
	return linter.LintFile(doc)
}

// parsedFHIR is a successfully- (or unsuccessfully-) parsed FHIR document,
// kept alongside its source file so the cross-reference index can be
// built from every sibling before any one of them is actually linted
// (spec.md §4.5).
type parsedFHIR struct {
	file string
	doc  *xmldom.Document
	err  error
}

func parseFHIRFiles(files []resolvedFile) []parsedFHIR {
	out := make([]parsedFHIR, 0, len(files))
	for _, rf := range files {
		out = append(out, parseFHIRFile(rf))
	}
	return out
}

func parseFHIRFile(rf resolvedFile) parsedFHIR {
	rc, err := rf.res.Open()
	if err != nil {
		return parsedFHIR{file: rf.ref.String(), err: err}
	}
	defer rc.Close()

	if strings.HasSuffix(strings.ToLower(rf.ref.String()), ".json") {
		data, readErr := io.ReadAll(rc)
		if readErr != nil {
			return parsedFHIR{file: rf.ref.String(), err: readErr}
		}
		doc, projErr := fhirjson.Project(data, rf.ref.String())
		return parsedFHIR{file: rf.ref.String(), doc: doc, err: projErr}
	}

	doc, err := xmldom.Parse(rc, rf.ref.String())
	return parsedFHIR{file: rf.ref.String(), doc: doc, err: err}
}

// canonicalURL reads an element's child <url value="..."/>, stripping
// any "|version" suffix — the same convention internal/fhirlint's own
// stripVersion applies when matching cross-references.
func canonicalURL(doc *xmldom.Document) string {
	urlNode := doc.Root.Child("url")
	if urlNode == nil {
		return ""
	}
	v, _ := urlNode.Attr("value")
	if idx := strings.IndexByte(v, '|'); idx >= 0 {
		v = v[:idx]
	}
	return v
}

func populateFHIRIndex(index *fhirlint.Index, parsed []parsedFHIR) {
	for _, pf := range parsed {
		if pf.err != nil || pf.doc == nil {
			continue
		}
		url := canonicalURL(pf.doc)
		if url == "" {
			continue
		}
		switch pf.doc.Root.XMLName.Local {
		case "ActivityDefinition":
			index.ActivityDefinitionURLs[url] = true
			for _, name := range fhirlint.MessageNamesFromActivityDefinition(pf.doc) {
				index.ActivityDefinitionMessageNames[name] = true
			}
		case "CodeSystem":
			index.CodeSystemURLs[url] = true
		case "ValueSet":
			index.ValueSetURLs[url] = true
		case "StructureDefinition":
			if name := fhirlint.MessageNameFromStructureDefinition(pf.doc); name != "" {
				index.StructureDefinitionMessageNames[name] = true
			}
		}
	}
}
