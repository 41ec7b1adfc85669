// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the packster command line.
//
// Commands are grouped by what they act on:
//
//	packster project pack      -p <workspace> -o <output-dir>
//	packster package deploy    -p <package-file> -l <location>
//	packster location init     -l <location>
//	packster location show     -l <location>
//	packster location undeploy -c <checksum> -l <location>
//	packster config show
//
// Every command builds one operation from pkg/operation and runs it to the
// end. Failures are classified into issue.ActionableError values and
// rendered on stderr.
package cmd
