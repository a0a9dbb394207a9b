package parser

import "strings"

// charRefTable maps named character references (without the leading '&',
// with the trailing ';' when the name requires one) to their replacement
// text. Names that also appear without a semicolon are the legacy set that
// must keep decoding for compatibility; the tokenizer's longest-match rule
// prefers the semicolon form when both are present in the input.
var charRefTable = map[string]string{
	// Legacy references, valid with and without the semicolon.
	"AElig": "Æ", "AElig;": "Æ",
	"AMP": "&", "AMP;": "&",
	"Aacute": "Á", "Aacute;": "Á",
	"Acirc": "Â", "Acirc;": "Â",
	"Agrave": "À", "Agrave;": "À",
	"Aring": "Å", "Aring;": "Å",
	"Atilde": "Ã", "Atilde;": "Ã",
	"Auml": "Ä", "Auml;": "Ä",
	"COPY": "©", "COPY;": "©",
	"Ccedil": "Ç", "Ccedil;": "Ç",
	"ETH": "Ð", "ETH;": "Ð",
	"Eacute": "É", "Eacute;": "É",
	"Ecirc": "Ê", "Ecirc;": "Ê",
	"Egrave": "È", "Egrave;": "È",
	"Euml": "Ë", "Euml;": "Ë",
	"GT": ">", "GT;": ">",
	"Iacute": "Í", "Iacute;": "Í",
	"Icirc": "Î", "Icirc;": "Î",
	"Igrave": "Ì", "Igrave;": "Ì",
	"Iuml": "Ï", "Iuml;": "Ï",
	"LT": "<", "LT;": "<",
	"Ntilde": "Ñ", "Ntilde;": "Ñ",
	"Oacute": "Ó", "Oacute;": "Ó",
	"Ocirc": "Ô", "Ocirc;": "Ô",
	"Ograve": "Ò", "Ograve;": "Ò",
	"Oslash": "Ø", "Oslash;": "Ø",
	"Otilde": "Õ", "Otilde;": "Õ",
	"Ouml": "Ö", "Ouml;": "Ö",
	"QUOT": "\"", "QUOT;": "\"",
	"REG": "®", "REG;": "®",
	"THORN": "Þ", "THORN;": "Þ",
	"Uacute": "Ú", "Uacute;": "Ú",
	"Ucirc": "Û", "Ucirc;": "Û",
	"Ugrave": "Ù", "Ugrave;": "Ù",
	"Uuml": "Ü", "Uuml;": "Ü",
	"Yacute": "Ý", "Yacute;": "Ý",
	"aacute": "á", "aacute;": "á",
	"acirc": "â", "acirc;": "â",
	"acute": "´", "acute;": "´",
	"aelig": "æ", "aelig;": "æ",
	"agrave": "à", "agrave;": "à",
	"amp": "&", "amp;": "&",
	"aring": "å", "aring;": "å",
	"atilde": "ã", "atilde;": "ã",
	"auml": "ä", "auml;": "ä",
	"brvbar": "¦", "brvbar;": "¦",
	"ccedil": "ç", "ccedil;": "ç",
	"cedil": "¸", "cedil;": "¸",
	"cent": "¢", "cent;": "¢",
	"copy": "©", "copy;": "©",
	"curren": "¤", "curren;": "¤",
	"deg": "°", "deg;": "°",
	"divide": "÷", "divide;": "÷",
	"eacute": "é", "eacute;": "é",
	"ecirc": "ê", "ecirc;": "ê",
	"egrave": "è", "egrave;": "è",
	"eth": "ð", "eth;": "ð",
	"euml": "ë", "euml;": "ë",
	"frac12": "½", "frac12;": "½",
	"frac14": "¼", "frac14;": "¼",
	"frac34": "¾", "frac34;": "¾",
	"gt": ">", "gt;": ">",
	"iacute": "í", "iacute;": "í",
	"icirc": "î", "icirc;": "î",
	"iexcl": "¡", "iexcl;": "¡",
	"igrave": "ì", "igrave;": "ì",
	"iquest": "¿", "iquest;": "¿",
	"iuml": "ï", "iuml;": "ï",
	"laquo": "«", "laquo;": "«",
	"lt": "<", "lt;": "<",
	"macr": "¯", "macr;": "¯",
	"micro": "µ", "micro;": "µ",
	"middot": "·", "middot;": "·",
	"nbsp": " ", "nbsp;": " ",
	"not": "¬", "not;": "¬",
	"ntilde": "ñ", "ntilde;": "ñ",
	"oacute": "ó", "oacute;": "ó",
	"ocirc": "ô", "ocirc;": "ô",
	"ograve": "ò", "ograve;": "ò",
	"ordf": "ª", "ordf;": "ª",
	"ordm": "º", "ordm;": "º",
	"oslash": "ø", "oslash;": "ø",
	"otilde": "õ", "otilde;": "õ",
	"ouml": "ö", "ouml;": "ö",
	"para": "¶", "para;": "¶",
	"plusmn": "±", "plusmn;": "±",
	"pound": "£", "pound;": "£",
	"quot": "\"", "quot;": "\"",
	"raquo": "»", "raquo;": "»",
	"reg": "®", "reg;": "®",
	"sect": "§", "sect;": "§",
	"shy": "­", "shy;": "­",
	"sup1": "¹", "sup1;": "¹",
	"sup2": "²", "sup2;": "²",
	"sup3": "³", "sup3;": "³",
	"szlig": "ß", "szlig;": "ß",
	"thorn": "þ", "thorn;": "þ",
	"times": "×", "times;": "×",
	"uacute": "ú", "uacute;": "ú",
	"ucirc": "û", "ucirc;": "û",
	"ugrave": "ù", "ugrave;": "ù",
	"uml": "¨", "uml;": "¨",
	"uuml": "ü", "uuml;": "ü",
	"yacute": "ý", "yacute;": "ý",
	"yen": "¥", "yen;": "¥",
	"yuml": "ÿ", "yuml;": "ÿ",

	// Semicolon-only references.
	"OElig;": "Œ", "oelig;": "œ",
	"Scaron;": "Š", "scaron;": "š",
	"Yuml;":  "Ÿ",
	"fnof;":  "ƒ",
	"circ;":  "ˆ",
	"tilde;": "˜",

	"Alpha;": "Α", "Beta;": "Β", "Gamma;": "Γ", "Delta;": "Δ",
	"Epsilon;": "Ε", "Zeta;": "Ζ", "Eta;": "Η", "Theta;": "Θ",
	"Iota;": "Ι", "Kappa;": "Κ", "Lambda;": "Λ", "Mu;": "Μ",
	"Nu;": "Ν", "Xi;": "Ξ", "Omicron;": "Ο", "Pi;": "Π",
	"Rho;": "Ρ", "Sigma;": "Σ", "Tau;": "Τ", "Upsilon;": "Υ",
	"Phi;": "Φ", "Chi;": "Χ", "Psi;": "Ψ", "Omega;": "Ω",
	"alpha;": "α", "beta;": "β", "gamma;": "γ", "delta;": "δ",
	"epsilon;": "ε", "zeta;": "ζ", "eta;": "η", "theta;": "θ",
	"iota;": "ι", "kappa;": "κ", "lambda;": "λ", "mu;": "μ",
	"nu;": "ν", "xi;": "ξ", "omicron;": "ο", "pi;": "π",
	"rho;": "ρ", "sigmaf;": "ς", "sigma;": "σ", "tau;": "τ",
	"upsilon;": "υ", "phi;": "φ", "chi;": "χ", "psi;": "ψ",
	"omega;": "ω", "thetasym;": "ϑ", "upsih;": "ϒ", "piv;": "ϖ",

	"ensp;": " ", "emsp;": " ", "thinsp;": " ",
	"zwnj;": "‌", "zwj;": "‍", "lrm;": "‎", "rlm;": "‏",
	"ndash;": "–", "mdash;": "—",
	"lsquo;": "‘", "rsquo;": "’", "sbquo;": "‚",
	"ldquo;": "“", "rdquo;": "”", "bdquo;": "„",
	"dagger;": "†", "Dagger;": "‡",
	"bull;": "•", "hellip;": "…",
	"permil;": "‰", "prime;": "′", "Prime;": "″",
	"lsaquo;": "‹", "rsaquo;": "›",
	"oline;": "‾", "frasl;": "⁄", "euro;": "€",
	"image;": "ℑ", "weierp;": "℘", "real;": "ℜ", "trade;": "™",
	"alefsym;": "ℵ",
	"larr;":    "←", "uarr;": "↑", "rarr;": "→", "darr;": "↓",
	"harr;": "↔", "crarr;": "↵",
	"lArr;": "⇐", "uArr;": "⇑", "rArr;": "⇒", "dArr;": "⇓", "hArr;": "⇔",
	"forall;": "∀", "part;": "∂", "exist;": "∃", "empty;": "∅",
	"nabla;": "∇", "isin;": "∈", "notin;": "∉", "ni;": "∋",
	"prod;": "∏", "sum;": "∑", "minus;": "−", "lowast;": "∗",
	"radic;": "√", "prop;": "∝", "infin;": "∞", "ang;": "∠",
	"and;": "∧", "or;": "∨", "cap;": "∩", "cup;": "∪",
	"int;": "∫", "there4;": "∴", "sim;": "∼", "cong;": "≅",
	"asymp;": "≈", "ne;": "≠", "equiv;": "≡",
	"le;": "≤", "ge;": "≥", "sub;": "⊂", "sup;": "⊃",
	"nsub;": "⊄", "sube;": "⊆", "supe;": "⊇",
	"oplus;": "⊕", "otimes;": "⊗", "perp;": "⊥", "sdot;": "⋅",
	"lceil;": "⌈", "rceil;": "⌉", "lfloor;": "⌊", "rfloor;": "⌋",
	"lang;": "〈", "rang;": "〉",
	"loz;": "◊", "spades;": "♠", "clubs;": "♣",
	"hearts;": "♥", "diams;": "♦",
	"apos;": "'",
}

// hasCharRefPrefix reports whether any named reference starts with prefix.
// The table is small enough that a linear scan beats maintaining a trie.
func hasCharRefPrefix(prefix string) bool {
	for k := range charRefTable {
		if strings.HasPrefix(k, prefix) {
			return true
		}
	}
	return false
}
