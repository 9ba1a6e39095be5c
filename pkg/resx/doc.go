// SPDX-License-Identifier: MPL-2.0

// Package resx reads XML resource definition files (.resx).
//
// A resource file is a single XML document whose root element is named "root".
// Every direct "data" child of the root is one entry:
//
//	<root>
//	  <data name="Greeting" comment="shown on start">
//	    <value>Hello {0}</value>
//	  </data>
//	</root>
//
// Entries read from several files of one locale family are merged with
// first-wins semantics; see [Entries.Merge].
package resx
