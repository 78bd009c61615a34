// Copyright 2025 Kadir Pekel
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

// Package template renders agent prompt and output message templates.
//
// Templates are plain text with {% ... %} tags. Everything outside a tag is
// passed through verbatim, whitespace included.
//
// # Tag Syntax
//
// A tag is a name, optional key=value (or key:value) parameters, and an
// optional pipe:
//
//	{% date %}                     - today as YYYY-MM-DD
//	{% date minus=1d %}            - date arithmetic (units: d, h, m)
//	{% datetime plus=2h %}         - YYYY-MM-DD HH:MM
//	{% datetimeiso %}              - RFC3339 timestamp
//	{% result %}                   - current job result
//	{% message %} / {% sender %}   - inbound message and sender
//	{% memory %}                   - newest stored result
//	{% memory minus=2 %}           - second newest
//	{% custom:key %}               - dictionary lookup (general section)
//	{% proxy:name %}               - match URL of a named secret
//	{% memory | summary %}         - pipe the resolved value
//
// # For Loops
//
// A restricted for-loop iterates over an inclusive integer range or a named
// collection (only "memories" is defined):
//
//	{% for i in (1..3) %}item {% i %} {% endfor %}
//	{% for m in memories limit:5 %}{% m.date %}: {% m.result %}
//	{% endfor %}
//
// Loop variables bound to memory entries expose .date, .datetime, and
// .result fields. Inside date arithmetic, an index variable can be
// interpolated into a duration: minus=i"d".
//
// # Usage
//
//	rc := template.NewContext(dict)
//	rc.Memories = memories
//	out, err := template.Render(ctx, promptText, rc)
//
// Rendering is pure: the engine performs no I/O (pipes are the one extension
// point that may), and a Context is never shared between renders.
package template
