/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import "pagegrid/internal/config"

// Options configures the desktop demo.
type Options struct {
	Config config.AppConfig
	// Pages and ItemsPerPage size the initial demo content.
	Pages        int
	ItemsPerPage int
}

func (o Options) withDefaults() Options {
	if o.Config.ConfigVersion == 0 {
		o.Config = config.Defaults()
	}
	if o.Pages <= 0 {
		o.Pages = 2
	}
	if o.ItemsPerPage < 0 {
		o.ItemsPerPage = 0
	} else if o.ItemsPerPage == 0 {
		o.ItemsPerPage = 12
	}
	return o
}
