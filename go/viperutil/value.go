// Copyright 2025 Supabase, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package viperutil

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Registerable is the type-erased part of a Value, used for flag binding.
type Registerable interface {
	// Key returns the viper key of the value.
	Key() string
	// FlagName returns the name of the pflag bound to the value, if any.
	FlagName() string
	registry() *Registry
}

// Value is a typed handle onto one configuration key.
type Value[T any] interface {
	Registerable
	// Default returns the value used when nothing else sets the key.
	Default() T
	// Get returns the effective value: explicit Set, then flag, then env,
	// then config file, then default.
	Get() T
	// Set overrides the value in the registry.
	Set(v T)
}

// Options configures a Value.
type Options[T any] struct {
	Default  T
	FlagName string
	// EnvVars are extra environment variables bound to the key, in addition
	// to the automatic SCRIPTLEX_ prefixed one.
	EnvVars []string
	// GetFunc overrides how the value is read back from viper. Required for
	// types viper has no getter for.
	GetFunc func(v *viper.Viper) func(key string) T
}

type staticValue[T any] struct {
	reg  *Registry
	key  string
	opts Options[T]
	get  func(key string) T
}

// Configure registers key in reg and returns a typed handle to it.
func Configure[T any](reg *Registry, key string, opts Options[T]) Value[T] {
	reg.v.SetDefault(key, opts.Default)
	if len(opts.EnvVars) > 0 {
		_ = reg.v.BindEnv(append([]string{key}, opts.EnvVars...)...)
	}

	getFunc := opts.GetFunc
	if getFunc == nil {
		getFunc = defaultGetFunc[T]
	}

	return &staticValue[T]{
		reg:  reg,
		key:  key,
		opts: opts,
		get:  getFunc(reg.v),
	}
}

func (val *staticValue[T]) Key() string         { return val.key }
func (val *staticValue[T]) FlagName() string    { return val.opts.FlagName }
func (val *staticValue[T]) Default() T          { return val.opts.Default }
func (val *staticValue[T]) Get() T              { return val.get(val.key) }
func (val *staticValue[T]) Set(v T)             { val.reg.v.Set(val.key, v) }
func (val *staticValue[T]) registry() *Registry { return val.reg }

// defaultGetFunc picks the viper getter matching T. Types viper cannot read
// directly fall back to UnmarshalKey.
func defaultGetFunc[T any](v *viper.Viper) func(key string) T {
	var zero T
	switch any(zero).(type) {
	case string:
		return func(key string) T { return any(v.GetString(key)).(T) }
	case bool:
		return func(key string) T { return any(v.GetBool(key)).(T) }
	case int:
		return func(key string) T { return any(v.GetInt(key)).(T) }
	case time.Duration:
		return func(key string) T { return any(v.GetDuration(key)).(T) }
	case []string:
		return func(key string) T { return any(v.GetStringSlice(key)).(T) }
	default:
		return func(key string) T {
			var out T
			_ = v.UnmarshalKey(key, &out)
			return out
		}
	}
}

// BindFlags binds each value to the flag of the same name in fs. Values
// without a flag name, or whose flag is not defined in fs, are skipped.
func BindFlags(fs *pflag.FlagSet, values ...Registerable) {
	for _, val := range values {
		name := val.FlagName()
		if name == "" {
			continue
		}
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := val.registry().v.BindPFlag(val.Key(), flag); err != nil {
			panic(fmt.Sprintf("viperutil: failed to bind flag %s: %v", name, err))
		}
	}
}
