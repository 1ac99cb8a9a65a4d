package listing

import (
	"fmt"
	"sync"

	"github.com/gobwas/glob"
	"golang.org/x/sync/semaphore"

	"cialist/internal/cia"
	"cialist/internal/config"
	"cialist/internal/errors"
	"cialist/internal/locale"
	"cialist/internal/log"
	"cialist/internal/render"
	"cialist/internal/report"
	"cialist/internal/smdh"
	"cialist/internal/task"
	"cialist/pkg/types"
)

const (
	// ListingFailedMessage is shown when a scan stops on an error
	ListingFailedMessage = "Failed to load file listing."
	// LaunchFailedMessage is shown when no scan task could be started
	LaunchFailedMessage = "Failed to start file listing task."
)

// Populator starts scans. It is safe for concurrent use; each scan runs
// on its own goroutine and owns the list it was given until it terminates.
type Populator struct {
	inspector Inspector
	locale    locale.Query
	renderer  render.Renderer
	reporter  report.Reporter
	shutdown  *task.Token
	log       *log.Logger

	cfg       *config.Config
	classify  classifier
	dirsFirst bool
	scratch   int
	sem       *semaphore.Weighted
	active    sync.WaitGroup
}

// Option configures a Populator
type Option func(*Populator)

// WithConfig applies the listing and theme settings of cfg
func WithConfig(cfg *config.Config) Option {
	return func(p *Populator) { p.cfg = cfg }
}

// WithInspector replaces the package inspector
func WithInspector(i Inspector) Option {
	return func(p *Populator) { p.inspector = i }
}

// WithLocale sets the query used to pick the title language
func WithLocale(q locale.Query) Option {
	return func(p *Populator) { p.locale = q }
}

// WithRenderer sets where package icons are loaded
func WithRenderer(r render.Renderer) Option {
	return func(p *Populator) { p.renderer = r }
}

// WithReporter sets where fatal scan errors are reported
func WithReporter(r report.Reporter) Option {
	return func(p *Populator) { p.reporter = r }
}

// WithShutdown sets the process-wide shutdown token checked between entries
func WithShutdown(t *task.Token) Option {
	return func(p *Populator) { p.shutdown = t }
}

// WithLogger sets the logger
func WithLogger(l *log.Logger) Option {
	return func(p *Populator) { p.log = l }
}

// NewPopulator creates a Populator. Unset collaborators default to the CIA
// inspector, the system locale, an in-memory texture store, log reporting
// and a fresh shutdown token.
func NewPopulator(opts ...Option) (*Populator, error) {
	p := &Populator{}
	for _, opt := range opts {
		opt(p)
	}

	if p.cfg == nil {
		p.cfg = config.New()
	}
	if err := p.cfg.Validate(); err != nil {
		return nil, err
	}
	if p.inspector == nil {
		p.inspector = cia.Inspector{}
	}
	if p.locale == nil {
		q, err := locale.New(p.cfg.Locale.Language)
		if err != nil {
			return nil, errors.NewConfigError("bad language", "locale.language", errors.InvalidConfig, err)
		}
		p.locale = q
	}
	if p.renderer == nil {
		p.renderer = render.NewStore()
	}
	if p.log == nil {
		p.log = log.Default()
	}
	if p.reporter == nil {
		p.reporter = report.Log{Logger: p.log}
	}
	if p.shutdown == nil {
		p.shutdown = task.NewToken()
	}

	dirColor, _ := config.ParseColor(p.cfg.Theme.Directory)
	fileColor, _ := config.ParseColor(p.cfg.Theme.Text)
	p.classify = classifier{
		showHidden: p.cfg.Listing.ShowHidden,
		dirColor:   types.Color(dirColor),
		fileColor:  types.Color(fileColor),
		log:        p.log,
	}
	for _, pattern := range p.cfg.Listing.Exclude {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.NewConfigError("bad pattern", "listing.exclude", errors.InvalidConfig, err)
		}
		p.classify.exclude = append(p.classify.exclude, g)
	}
	p.dirsFirst = p.cfg.Listing.DirectoriesFirst
	p.scratch = p.cfg.Listing.ScratchLimit
	p.sem = semaphore.NewWeighted(int64(p.cfg.Listing.MaxTasks))
	return p, nil
}

// Renderer returns the renderer icons are loaded into
func (p *Populator) Renderer() render.Renderer {
	return p.renderer
}

// Shutdown returns the token that stops every scan of this Populator
func (p *Populator) Shutdown() *task.Token {
	return p.shutdown
}

// Wait blocks until every scan started by p has terminated
func (p *Populator) Wait() {
	p.active.Wait()
}

// Clear empties list, releasing icons through the populator's renderer
func (p *Populator) Clear(list *List) error {
	return Clear(list, p.renderer)
}

// Populate clears list and starts a scan of dir into it. The returned
// handle is live before any entry is processed.
//
// Invalid arguments and a busy list fail without touching the list and
// without a report. When the scan task cannot be started the failure is
// reported and no handle is returned.
func (p *Populator) Populate(list *List, dir *types.FileInfo) (*Handle, error) {
	if err := validate(list, dir); err != nil {
		return nil, err
	}
	if !list.claim() {
		return nil, errors.ErrListBusy
	}
	list.clear(p.renderer)

	if !p.sem.TryAcquire(1) {
		list.release()
		err := errors.NewKind(errors.WorkerLaunchFailed, "scan task limit reached", nil)
		p.reporter.Report(errors.WorkerLaunchFailed, LaunchFailedMessage, err)
		return nil, err
	}

	dir.ContainsPackages.Store(false)
	h := newHandle()
	p.active.Add(1)
	go p.run(h, list, dir)
	return h, nil
}

func validate(list *List, dir *types.FileInfo) error {
	var reason string
	switch {
	case list == nil:
		reason = "nil list"
	case list.Cap() == 0:
		reason = "list has no capacity"
	case dir == nil:
		reason = "nil directory"
	case dir.Volume == nil:
		reason = "directory has no volume"
	case !dir.IsDirectory:
		reason = fmt.Sprintf("%s is not a directory", dir.Path)
	default:
		return nil
	}
	return errors.NewKind(errors.InvalidArgument, "invalid argument", errors.New(reason))
}

func (p *Populator) run(h *Handle, list *List, dir *types.FileInfo) {
	var err error
	defer func() {
		list.release()
		p.sem.Release(1)
		p.active.Done()
		h.finish(err)
	}()
	err = p.scan(h, list, dir)
}

// fail returns err, reporting it once when it stops the scan. Anything
// else is only logged.
func (p *Populator) fail(err error) error {
	if !errors.IsFatalToScan(err) {
		p.log.WithError(err).Warn(ListingFailedMessage)
		return err
	}
	p.reporter.Report(errors.KindOf(err), ListingFailedMessage, err)
	return err
}

// language returns the title language, English when the query fails
func (p *Populator) language() smdh.Language {
	lang, err := p.locale.CurrentLanguage()
	if err != nil {
		p.log.WithError(err).Debug("Failed to get system language, using English")
		return smdh.English
	}
	return lang
}
