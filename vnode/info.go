// Copyright 2024 RippleDB, Inc.
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

package vnode

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// SaveInfo writes the descriptor to the temp file. A later CommitInfo makes
// it current; a crash between the two leaves the previous descriptor intact.
func SaveInfo(dir string, info *Info) error {
	data, err := yaml.Marshal(info)
	if err != nil {
		return errors.Wrap(err, "vnode: marshal info")
	}
	if err := os.WriteFile(filepath.Join(dir, infoTempFile), data, 0o644); err != nil {
		return errors.Wrap(err, "vnode: write info")
	}
	return nil
}

// CommitInfo atomically renames the temp descriptor over the current one.
func CommitInfo(dir string, _ *Info) error {
	if err := os.Rename(filepath.Join(dir, infoTempFile), filepath.Join(dir, infoFile)); err != nil {
		return errors.Wrap(err, "vnode: commit info")
	}
	return nil
}

// LoadInfo reads the committed descriptor.
func LoadInfo(dir string) (*Info, error) {
	data, err := os.ReadFile(filepath.Join(dir, infoFile))
	if err != nil {
		return nil, errors.Wrap(err, "vnode: read info")
	}
	info := &Info{Config: DefaultConfig}
	if err := yaml.Unmarshal(data, info); err != nil {
		return nil, errors.Wrap(err, "vnode: unmarshal info")
	}
	return info, nil
}
