// Package export persists fitted staves and their model as XML.
//
// The document root is <staffs>, carrying the model's scalar fields as
// attributes, followed by the per-column <gradient>, the corrected
// <profile>, and one <staff> element per staff with its five <line> rows:
//
//	<staffs width="1000" height="200" start_col="0" start_row="40" ...>
//	  <gradient>0 0 0 ...</gradient>
//	  <profile origin="-1">0 0 1000 1000 ...</profile>
//	  <staff index="0" first="41" last="73">
//	    <line row="41"></line>
//	    ...
//	  </staff>
//	</staffs>
package export
