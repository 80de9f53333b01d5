package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ScreenWatch/api/fingerprint"
	"ScreenWatch/api/logx"
	"ScreenWatch/api/models"

	"github.com/twinj/uuid"
	"go.uber.org/zap"
)

var logger = logx.GetScope("identity")

// Option configures a Resolver.
type Option func(*Resolver)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// WithIDGenerator overrides the random id used when a new device has no
// client supplied identifier.
func WithIDGenerator(fn func() string) Option {
	return func(r *Resolver) { r.newID = fn }
}

// WithNewDeviceHook registers fn to run after a new device is stored.
func WithNewDeviceHook(fn func(*models.Device)) Option {
	return func(r *Resolver) { r.onNewDevice = fn }
}

// Resolver maps requests onto device records using a fixed cascade of
// lookups. It holds no state between calls.
type Resolver struct {
	store       Store
	now         func() time.Time
	newID       func() string
	onNewDevice func(*models.Device)
}

func NewResolver(store Store, opts ...Option) *Resolver {
	r := &Resolver{
		store: store,
		now:   time.Now,
		newID: func() string { return uuid.NewV4().String() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// signals is a request after normalization. Empty strings mean absent.
type signals struct {
	req      Request
	ip       string
	hash     string
	screen   string
	cores    string
	os       string
	platform string
	browser  string
}

func newSignals(req Request) signals {
	c := fingerprint.Normalize(req.Info, req.ClientIP)
	return signals{
		req:      req,
		ip:       known(c.IP),
		hash:     c.Sum(),
		screen:   known(c.ScreenResolution),
		cores:    req.Info.Cores(),
		os:       req.Info.OSOrPlatform(),
		platform: req.Info.Platform.String(),
		browser:  fingerprint.DetectBrowser(req.Info.UserAgent.String()),
	}
}

func known(s string) string {
	if s == fingerprint.Unknown {
		return ""
	}
	return s
}

type step struct {
	match      MatchType
	confidence Confidence
	applies    func(s signals) bool
	find       func(ctx context.Context, store Store, s signals) (*models.Device, error)
}

// cascade is evaluated in order and the first hit wins, even when a later
// step would have matched a better candidate.
var cascade = []step{
	{
		match:      MatchVisitorID,
		confidence: ConfidenceHigh,
		applies:    func(s signals) bool { return s.req.VisitorID != "" },
		find: func(ctx context.Context, store Store, s signals) (*models.Device, error) {
			return store.FindByVisitorID(ctx, s.req.VisitorID)
		},
	},
	{
		match:      MatchUUID,
		confidence: ConfidenceHigh,
		applies:    func(s signals) bool { return s.req.FrontendUUID != "" },
		find: func(ctx context.Context, store Store, s signals) (*models.Device, error) {
			return store.FindByDeviceID(ctx, s.req.FrontendUUID)
		},
	},
	{
		match:      MatchFingerprint,
		confidence: ConfidenceHigh,
		applies:    func(s signals) bool { return s.hash != "" },
		find: func(ctx context.Context, store Store, s signals) (*models.Device, error) {
			return store.FindByFingerprint(ctx, s.hash)
		},
	},
	{
		match:      MatchHardware,
		confidence: ConfidenceMedium,
		applies:    func(s signals) bool { return s.ip != "" && s.cores != "" && s.screen != "" },
		find: func(ctx context.Context, store Store, s signals) (*models.Device, error) {
			return store.FindByHardware(ctx, HardwareQuery{IP: s.ip, Cores: s.cores, Screen: s.screen})
		},
	},
	{
		match:      MatchScreenOS,
		confidence: ConfidenceMedium,
		applies:    func(s signals) bool { return s.screen != "" && (s.os != "" || s.platform != "") },
		find: func(ctx context.Context, store Store, s signals) (*models.Device, error) {
			return store.FindByScreenOS(ctx, ScreenOSQuery{Screen: s.screen, OS: s.os, Platform: s.platform})
		},
	},
}

// Resolve returns the device for req, creating it when no cascade step
// matches. Lookup failures count as misses. Only a failed create is returned
// as an error, wrapped in ErrCreateDevice.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*Resolution, error) {
	started := time.Now()
	s := newSignals(req)

	for _, st := range cascade {
		if !st.applies(s) {
			continue
		}
		device, err := st.find(ctx, r.store, s)
		if err != nil {
			if !errors.Is(err, ErrDeviceNotFound) {
				LookupErrorsTotal.WithLabelValues(string(st.match)).Inc()
				logger.Warn("device lookup failed, trying next step",
					zap.String("step", string(st.match)),
					zap.Error(err),
				)
			}
			continue
		}

		res := r.matched(ctx, device, st, s)
		recordResolution(res, started)
		return res, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateDevice, err)
	}

	res, err := r.create(ctx, s)
	if err != nil {
		return nil, err
	}
	recordResolution(res, started)
	return res, nil
}

func (r *Resolver) matched(ctx context.Context, device *models.Device, st step, s signals) *Resolution {
	now := r.now()
	merge(device, s, now)

	if err := r.store.Save(ctx, device); err != nil {
		logger.Error("failed to persist merged device",
			zap.String("device_id", device.DeviceID),
			zap.Error(err),
		)
	}

	fields := []zap.Field{
		zap.String("device_id", device.DeviceID),
		zap.String("match_type", string(st.match)),
		zap.String("confidence", string(st.confidence)),
		zap.String("ip", s.ip),
	}
	if st.confidence == ConfidenceMedium {
		logger.Warn("device matched on hardware correlation", fields...)
	} else {
		logger.Info("device matched", fields...)
	}

	return &Resolution{
		DeviceID:   device.DeviceID,
		MatchType:  st.match,
		Confidence: st.confidence,
		Device:     device,
		ResolvedAt: now,
	}
}

func (r *Resolver) create(ctx context.Context, s signals) (*Resolution, error) {
	now := r.now()

	id := s.req.FrontendUUID
	if id == "" {
		id = s.req.VisitorID
	}
	if id == "" {
		id = r.newID()
	}

	device := &models.Device{
		DeviceID:        id,
		VisitorID:       s.req.VisitorID,
		FingerprintHash: s.hash,
		CreatedAt:       now,
		LastSeen:        now,
	}
	if s.ip != "" {
		device.IP = models.IPHistory{s.ip}
	}
	applyCharacteristics(device, s.req.Info)
	device.AddBrowser(s.browser)

	if err := r.store.Create(ctx, device); err != nil {
		logger.Error("failed to create device",
			zap.String("device_id", id),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w %s: %w", ErrCreateDevice, id, err)
	}

	logger.Info("new device registered",
		zap.String("device_id", id),
		zap.String("browser", s.browser),
		zap.String("ip", s.ip),
	)
	if r.onNewDevice != nil {
		r.onNewDevice(device)
	}

	return &Resolution{
		DeviceID:    id,
		MatchType:   MatchNewDevice,
		Confidence:  ConfidenceNone,
		IsNewDevice: true,
		Device:      device,
		ResolvedAt:  now,
	}, nil
}

// merge folds corroborating data into an existing record without clobbering
// identity fields.
func merge(d *models.Device, s signals, now time.Time) {
	d.LastSeen = now
	if d.VisitorID == "" && s.req.VisitorID != "" {
		d.VisitorID = s.req.VisitorID
	}
	if s.ip != "" {
		d.IP = d.IP.With(s.ip)
	}
	d.FingerprintHash = s.hash
	if s.req.Info.UserAgent != "" {
		d.AddBrowser(s.browser)
	}
	applyCharacteristics(d, s.req.Info)
}

// applyCharacteristics overwrites self-reported fields with non-empty values.
func applyCharacteristics(d *models.Device, info fingerprint.DeviceInfo) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&d.UserAgent, info.UserAgent.String())
	set(&d.ScreenResolution, info.Resolution())
	if tz := info.Timezone.String(); tz != "" {
		d.Timezone = fingerprint.NormalizeTimezone(tz)
	}
	set(&d.Language, info.Language.String())
	set(&d.HardwareConcurrency, info.Cores())
	set(&d.CPUThreads, info.CPUThreads.String())
	set(&d.OS, info.OS.String())
	set(&d.Platform, info.Platform.String())
	set(&d.ColorDepth, info.ColorDepth.String())
	set(&d.PixelDepth, info.PixelDepth.String())
	set(&d.MaxTouchPoints, info.MaxTouchPoints.String())
	set(&d.DeviceMemory, info.DeviceMemory.String())
}
