package config

// Merge overlays src onto dst. Non-empty scalar settings in src win, a
// non-nil src.Hooks replaces dst.Hooks, and endpoints are added or replaced
// by name.
func Merge(dst, src *Config) {
	if src.Server.Address != "" {
		dst.Server.Address = src.Server.Address
	}
	if src.Server.MaxBodyBytes != 0 {
		dst.Server.MaxBodyBytes = src.Server.MaxBodyBytes
	}
	if src.Server.ShutdownTimeout != "" {
		dst.Server.ShutdownTimeout = src.Server.ShutdownTimeout
	}

	if src.Log.Level != "" {
		dst.Log.Level = src.Log.Level
	}
	if src.Log.File != "" {
		dst.Log.File = src.Log.File
	}
	if src.Log.AuditFile != "" {
		dst.Log.AuditFile = src.Log.AuditFile
	}

	if src.Hooks != nil {
		hooks := *src.Hooks
		dst.Hooks = &hooks
	}

	if len(src.Endpoints) > 0 && dst.Endpoints == nil {
		dst.Endpoints = make(map[string]EndpointConfig, len(src.Endpoints))
	}
	for name, ep := range src.Endpoints {
		dst.Endpoints[name] = ep
	}

	dst.Sources = append(dst.Sources, src.Sources...)
}
