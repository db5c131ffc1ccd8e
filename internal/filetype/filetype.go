// Package filetype maps file-type names to extension globs and magic-byte
// patterns. Capitalized type names additionally carry a magic pattern that
// admits files by content, such as shebang lines.
package filetype

import "strings"

// Entry is one named file type. Extensions is a comma-separated list;
// Magic is a regex matched against the leading bytes of a file, empty
// when the type is identified by name alone.
type Entry struct {
	Name       string
	Extensions string
	Magic      string
}

var table = []Entry{
	{"actionscript", "as,mxml", ""},
	{"ada", "ada,adb,ads", ""},
	{"asm", "asm,s,S", ""},
	{"asp", "asp", ""},
	{"aspx", "master,ascx,asmx,aspx,svc", ""},
	{"autoconf", "ac,in", ""},
	{"automake", "am,in", ""},
	{"awk", "awk", ""},
	{"Awk", "awk", `#!/.*\Wg?awk(\W.*)?\n`},
	{"basic", "bas,BAS,cls,frm,ctl,vb,resx", ""},
	{"batch", "bat,BAT,cmd,CMD", ""},
	{"bison", "y,yy,yxx", ""},
	{"c", "c,h,H,hdl,xs", ""},
	{"c++", "cpp,CPP,cc,cxx,CXX,h,hh,H,hpp,hxx,Hxx,HXX", ""},
	{"clojure", "clj", ""},
	{"csharp", "cs", ""},
	{"css", "css", ""},
	{"csv", "csv", ""},
	{"dart", "dart", ""},
	{"Dart", "dart", `#!/.*\Wdart(\W.*)?\n`},
	{"delphi", "pas,int,dfm,nfm,dof,dpk,dproj,groupproj,bdsgroup,bdsproj", ""},
	{"elisp", "el", ""},
	{"elixir", "ex,exs", ""},
	{"erlang", "erl,hrl", ""},
	{"fortran", "for,ftn,fpp,f,F,f77,F77,f90,F90,f95,F95,f03,F03", ""},
	{"gif", "gif", ""},
	{"Gif", "gif", "GIF87a|GIF89a"},
	{"go", "go", ""},
	{"groovy", "groovy,gtmpl,gpp,grunit,gradle", ""},
	{"gsp", "gsp", ""},
	{"haskell", "hs,lhs", ""},
	{"html", "htm,html,xhtml", ""},
	{"jade", "jade", ""},
	{"java", "java,properties", ""},
	{"jpeg", "jpg,jpeg", ""},
	{"Jpeg", "jpg,jpeg", `\xff\xd8\xff[\xdb\xe0\xe1\xee]`},
	{"js", "js", ""},
	{"json", "json", ""},
	{"jsp", "jsp,jspx,jthm,jhtml", ""},
	{"julia", "jl", ""},
	{"kotlin", "kt,kts", ""},
	{"less", "less", ""},
	{"lex", "l,ll,lxx", ""},
	{"lisp", "lisp,lsp", ""},
	{"lua", "lua", ""},
	{"m4", "m4", ""},
	{"make", "mk,mak,makefile,Makefile,Makefile.Debug,Makefile.Release", ""},
	{"markdown", "md", ""},
	{"matlab", "m", ""},
	{"node", "js", ""},
	{"Node", "js", `#!/.*\Wnode(\W.*)?\n`},
	{"objc", "m,h", ""},
	{"objc++", "mm,h", ""},
	{"ocaml", "ml,mli,mll,mly", ""},
	{"parrot", "pir,pasm,pmc,ops,pod,pg,tg", ""},
	{"pascal", "pas,pp", ""},
	{"pdf", "pdf", ""},
	{"Pdf", "pdf", `\x25\x50\x44\x46\x2d`},
	{"perl", "pl,PL,pm,pod,t,psgi", ""},
	{"Perl", "pl,PL,pm,pod,t,psgi", `#!/.*\Wperl(\W.*)?\n`},
	{"php", "php,php3,php4,phtml", ""},
	{"Php", "php,php3,php4,phtml", `#!/.*\Wphp(\W.*)?\n`},
	{"png", "png", ""},
	{"Png", "png", `\x89png\x0d\x0a\x1a\x0a`},
	{"prolog", "pl,pro", ""},
	{"python", "py", ""},
	{"Python", "py", `#!/.*\Wpython(\W.*)?\n`},
	{"r", "R", ""},
	{"rpm", "rpm", ""},
	{"Rpm", "rpm", `\xed\xab\xee\xdb`},
	{"rst", "rst", ""},
	{"rtf", "rtf", ""},
	{"Rtf", "rtf", `\{\rtf1`},
	{"ruby", "rb,rhtml,rjs,rxml,erb,rake,spec,Rakefile", ""},
	{"Ruby", "rb,rhtml,rjs,rxml,erb,rake,spec,Rakefile", `#!/.*\Wruby(\W.*)?\n`},
	{"rust", "rs", ""},
	{"scala", "scala", ""},
	{"scheme", "scm,ss", ""},
	{"shell", "sh,bash,dash,csh,tcsh,ksh,zsh,fish", ""},
	{"Shell", "sh,bash,dash,csh,tcsh,ksh,zsh,fish", `#!/.*\W(ba|da|t?c|k|z|fi)?sh(\W.*)?\n`},
	{"smalltalk", "st", ""},
	{"sql", "sql,ctl", ""},
	{"svg", "svg", ""},
	{"swift", "swift", ""},
	{"tcl", "tcl,itcl,itk", ""},
	{"tex", "tex,cls,sty,bib", ""},
	{"text", "text,txt,TXT,md", ""},
	{"tiff", "tif,tiff", ""},
	{"Tiff", "tif,tiff", `\x49\x49\x2a\x00|\x4d\x4d\x00\x2a`},
	{"tt", "tt,tt2,ttml", ""},
	{"typescript", "ts,tsx", ""},
	{"verilog", "v,vh,sv", ""},
	{"vhdl", "vhd,vhdl", ""},
	{"vim", "vim", ""},
	{"xml", "xml,xsd,xsl,xslt,wsdl,rss,svg,ent,plist", ""},
	{"Xml", "xml,xsd,xsl,xslt,wsdl,rss,svg,ent,plist", `<\?xml `},
	{"yacc", "y", ""},
	{"yaml", "yaml,yml", ""},
}

// Lookup finds a type entry by exact name.
func Lookup(name string) (Entry, bool) {
	for _, e := range table {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// All returns the full registry in declaration order.
func All() []Entry {
	return table
}

// Globs converts comma-separated extensions to include globs.
func Globs(extensions string) []string {
	parts := strings.Split(extensions, ",")
	globs := make([]string, len(parts))
	for i, ext := range parts {
		globs[i] = "*." + ext
	}
	return globs
}
