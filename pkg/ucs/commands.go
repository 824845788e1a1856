/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ucs

import "sort"

// Supported poll commands.
const (
	CommandPowerThermal = "ucs.powerthermal"
	CommandFan          = "ucs.fan"
	CommandPSU          = "ucs.psu"
	CommandDisk         = "ucs.disk"
	CommandLED          = "ucs.led"
	CommandSEL          = "ucs.sel"
)

// DefaultCommandClassIDs maps each poll command to the UCS managed-object
// classes it fetches.
func DefaultCommandClassIDs() map[string][]string {
	return map[string][]string{
		CommandPowerThermal: {
			"memoryUnitEnvStats",
			"processorEnvStats",
			"computeMbPowerStats",
			"computeMbTempStats",
			"equipmentChassisStats",
		},
		CommandFan:  {"equipmentFanStats"},
		CommandPSU:  {"equipmentPsuStats"},
		CommandDisk: {"storageLocalDiskSlotEp"},
		CommandLED:  {"equipmentLed"},
		CommandSEL:  {"sysdebugMEpLog"},
	}
}

// copyCommands deep-copies a command map so later edits by the caller do not
// leak into a running job.
func copyCommands(src map[string][]string) map[string][]string {
	out := make(map[string][]string, len(src))

	for cmd, ids := range src {
		out[cmd] = append([]string(nil), ids...)
	}

	return out
}

func commandNames(m map[string][]string) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
