// Package icons exports the titled elements of an SVG document as PNG files.
//
// An icon is any element carrying a <title> child in the SVG namespace: the
// title text names the output file and the element's id addresses it for the
// renderer.
//
//	<g id="g1042">
//	    <title>gear</title>
//	    ...
//	</g>
//
// produces gear.png. The pipeline per icon is:
//
//	Discover → skip check → Measure → Fit → Export → report
//
// Icons are processed one at a time in document order. A failure affects only
// the icon at hand; see [Exporter.Run].
package icons
